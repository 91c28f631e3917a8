package repository

import (
	"context"
	"errors"

	"github.com/freeeve/broadside/api/internal/model"
)

var (
	// ErrUsernameTaken is returned by UserRepository.Create when the
	// username is already registered. The check and the insert happen
	// under one lock, so racing registrations cannot both win.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrNotFound is returned by Update and Delete when the record does
	// not exist. Find methods return (nil, nil) instead.
	ErrNotFound = errors.New("record not found")
)

// UserRepository defines account storage. Find methods return (nil, nil)
// when no user matches.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// UpsertByProvider finds or creates the account behind an OAuth
	// identity, deriving a free username from displayName on first login.
	UpsertByProvider(ctx context.Context, provider, providerID, displayName string) (*model.User, error)
}

// ShipTemplateRepository defines the ship template catalog.
type ShipTemplateRepository interface {
	Create(ctx context.Context, t *model.ShipTemplate) error
	FindByID(ctx context.Context, id string) (*model.ShipTemplate, error)
	List(ctx context.Context) ([]*model.ShipTemplate, error)
	Update(ctx context.Context, t *model.ShipTemplate) error
	Delete(ctx context.Context, id string) error
}

// BaseFleetRepository defines the base fleet catalog.
type BaseFleetRepository interface {
	Create(ctx context.Context, f *model.BaseFleet) error
	FindByID(ctx context.Context, id string) (*model.BaseFleet, error)
	List(ctx context.Context) ([]*model.BaseFleet, error)
	Update(ctx context.Context, f *model.BaseFleet) error
	Delete(ctx context.Context, id string) error
}

// GameRepository defines live game storage. FindByID and List return the
// live records; callers mutate game state in place under the game
// service's per-game lock, so there is no Update. Filtering on mutable
// fields (status, second player) belongs to the service for the same
// reason.
type GameRepository interface {
	Create(ctx context.Context, g *model.Game) error
	FindByID(ctx context.Context, id string) (*model.Game, error)
	List(ctx context.Context) ([]*model.Game, error)
	Delete(ctx context.Context, id string) error
}
