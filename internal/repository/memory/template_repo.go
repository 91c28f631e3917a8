package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/broadside/api/internal/model"
	"github.com/freeeve/broadside/api/internal/repository"
)

// TemplateRepo stores the ship template catalog in memory.
type TemplateRepo struct {
	mu        sync.RWMutex
	templates map[string]model.ShipTemplate
	order     []string
}

// NewTemplateRepo creates an empty TemplateRepo.
func NewTemplateRepo() *TemplateRepo {
	return &TemplateRepo{templates: make(map[string]model.ShipTemplate)}
}

// Create inserts a new template, assigning ID and CreatedAt when unset.
func (r *TemplateRepo) Create(_ context.Context, t *model.ShipTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if _, exists := r.templates[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.templates[t.ID] = *t
	return nil
}

// FindByID returns the template with the given ID, or (nil, nil).
func (r *TemplateRepo) FindByID(_ context.Context, id string) (*model.ShipTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.templates[id]; ok {
		return &t, nil
	}
	return nil, nil
}

// List returns all templates in creation order.
func (r *TemplateRepo) List(_ context.Context) ([]*model.ShipTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.ShipTemplate, 0, len(r.order))
	for _, id := range r.order {
		t := r.templates[id]
		out = append(out, &t)
	}
	return out, nil
}

// Update replaces an existing template, keeping its CreatedAt.
func (r *TemplateRepo) Update(_ context.Context, t *model.ShipTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.templates[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	t.CreatedAt = old.CreatedAt
	r.templates[t.ID] = *t
	return nil
}

// Delete removes a template.
func (r *TemplateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.templates, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
