package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/broadside/api/internal/model"
	"github.com/freeeve/broadside/api/internal/repository"
)

// FleetRepo stores the base fleet catalog in memory.
type FleetRepo struct {
	mu     sync.RWMutex
	fleets map[string]model.BaseFleet
	order  []string
}

// NewFleetRepo creates an empty FleetRepo.
func NewFleetRepo() *FleetRepo {
	return &FleetRepo{fleets: make(map[string]model.BaseFleet)}
}

// Create inserts a new fleet, assigning ID and CreatedAt when unset.
func (r *FleetRepo) Create(_ context.Context, f *model.BaseFleet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if _, exists := r.fleets[f.ID]; !exists {
		r.order = append(r.order, f.ID)
	}
	r.fleets[f.ID] = copyFleet(*f)
	return nil
}

// FindByID returns the fleet with the given ID, or (nil, nil).
func (r *FleetRepo) FindByID(_ context.Context, id string) (*model.BaseFleet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.fleets[id]; ok {
		f = copyFleet(f)
		return &f, nil
	}
	return nil, nil
}

// List returns all fleets in creation order.
func (r *FleetRepo) List(_ context.Context) ([]*model.BaseFleet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.BaseFleet, 0, len(r.order))
	for _, id := range r.order {
		f := copyFleet(r.fleets[id])
		out = append(out, &f)
	}
	return out, nil
}

// Update replaces an existing fleet, keeping its CreatedAt.
func (r *FleetRepo) Update(_ context.Context, f *model.BaseFleet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.fleets[f.ID]
	if !ok {
		return repository.ErrNotFound
	}
	f.CreatedAt = old.CreatedAt
	r.fleets[f.ID] = copyFleet(*f)
	return nil
}

// Delete removes a fleet.
func (r *FleetRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fleets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.fleets, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// copyFleet deep-copies the template ID slice so callers cannot mutate
// stored state through a returned fleet.
func copyFleet(f model.BaseFleet) model.BaseFleet {
	ids := make([]string, len(f.ShipTemplateIDs))
	copy(ids, f.ShipTemplateIDs)
	f.ShipTemplateIDs = ids
	return f
}
