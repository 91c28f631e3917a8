// Package memory implements the repository interfaces with in-process
// maps. Each repo guards its state with its own RWMutex and copies
// records on the way in and out, so callers never share map-backed
// pointers. Games are the exception: the game service serializes
// access per game, so GameRepo hands back live references.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/broadside/api/internal/model"
	"github.com/freeeve/broadside/api/internal/repository"
)

// UserRepo stores accounts in memory.
type UserRepo struct {
	mu         sync.RWMutex
	users      map[string]model.User
	byUsername map[string]string // lowercase username -> id
	byProvider map[string]string // provider + "\x00" + providerID -> id
}

// NewUserRepo creates an empty UserRepo.
func NewUserRepo() *UserRepo {
	return &UserRepo{
		users:      make(map[string]model.User),
		byUsername: make(map[string]string),
		byProvider: make(map[string]string),
	}
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func providerKey(provider, providerID string) string {
	return provider + "\x00" + providerID
}

// Create inserts a new user, assigning ID and CreatedAt when unset.
// Fails with ErrUsernameTaken if the username is already registered.
func (r *UserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := usernameKey(u.Username)
	if _, taken := r.byUsername[key]; taken {
		return repository.ErrUsernameTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.users[u.ID] = *u
	r.byUsername[key] = u.ID
	if u.Provider != "" {
		r.byProvider[providerKey(u.Provider, u.ProviderID)] = u.ID
	}
	return nil
}

// FindByID returns the user with the given ID, or (nil, nil).
func (r *UserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// FindByUsername returns the user with the given username, or (nil, nil).
// The lookup is case-insensitive.
func (r *UserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[usernameKey(username)]
	if !ok {
		return nil, nil
	}
	u := r.users[id]
	return &u, nil
}

// UpsertByProvider finds the account behind an OAuth identity, creating
// it on first login. New accounts get the player role and a username
// derived from displayName, suffixed with a counter until free.
func (r *UserRepo) UpsertByProvider(_ context.Context, provider, providerID, displayName string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byProvider[providerKey(provider, providerID)]; ok {
		u := r.users[id]
		return &u, nil
	}

	base := usernameKey(displayName)
	if base == "" {
		base = provider + "-player"
	}
	username := base
	for n := 2; ; n++ {
		if _, taken := r.byUsername[usernameKey(username)]; !taken {
			break
		}
		username = fmt.Sprintf("%s-%d", base, n)
	}

	u := model.User{
		ID:         uuid.NewString(),
		Username:   username,
		Role:       model.RolePlayer,
		Provider:   provider,
		ProviderID: providerID,
		CreatedAt:  time.Now().UTC(),
	}
	r.users[u.ID] = u
	r.byUsername[usernameKey(username)] = u.ID
	r.byProvider[providerKey(provider, providerID)] = u.ID
	return &u, nil
}
