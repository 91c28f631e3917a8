package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/broadside/api/internal/model"
	"github.com/freeeve/broadside/api/internal/repository"
)

// GameRepo stores live games in memory. Unlike the other repos it hands
// out the stored pointers: game state is mutated in place under the game
// service's per-game lock.
type GameRepo struct {
	mu    sync.RWMutex
	games map[string]*model.Game
	order []string
}

// NewGameRepo creates an empty GameRepo.
func NewGameRepo() *GameRepo {
	return &GameRepo{games: make(map[string]*model.Game)}
}

// Create inserts a new game, assigning ID and CreatedAt when unset.
func (r *GameRepo) Create(_ context.Context, g *model.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	if _, exists := r.games[g.ID]; !exists {
		r.order = append(r.order, g.ID)
	}
	r.games[g.ID] = g
	return nil
}

// FindByID returns the live game with the given ID, or (nil, nil).
func (r *GameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.games[id], nil
}

// List returns all live games in creation order.
func (r *GameRepo) List(_ context.Context) ([]*model.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Game, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.games[id])
	}
	return out, nil
}

// Delete removes a game.
func (r *GameRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.games, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
