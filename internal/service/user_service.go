package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/freeeve/broadside/api/internal/auth"
	"github.com/freeeve/broadside/api/internal/model"
	"github.com/freeeve/broadside/api/internal/repository"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidUsername    = errors.New("username must be 3-50 characters")
	ErrInvalidPassword    = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// Username and password limits for registration.
const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
)

// UserService handles registration, credential checks, and account lookups.
type UserService struct {
	users repository.UserRepository
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates a player account with a bcrypt-hashed password. The
// repository reports duplicate usernames.
func (s *UserService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, ErrInvalidUsername
	}
	if len(password) < minPasswordLen {
		return nil, ErrInvalidPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RolePlayer,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks a username/password pair and returns the account. OAuth
// accounts have no password hash and never match.
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || u.PasswordHash == "" || !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Me returns the account behind a user id.
func (s *UserService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// OAuthLogin finds or creates the account behind an OAuth identity.
func (s *UserService) OAuthLogin(ctx context.Context, provider, providerID, displayName string) (*model.User, error) {
	return s.users.UpsertByProvider(ctx, provider, providerID, displayName)
}

// SeedAdmin makes sure an admin account exists at startup. An existing
// user with the name keeps its password and role.
func (s *UserService) SeedAdmin(ctx context.Context, username, password string) error {
	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil
		}
		return err
	}
	log.Info().Str("username", username).Msg("seeded admin account")
	return nil
}
