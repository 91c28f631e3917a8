package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freeeve/broadside/api/internal/model"
	"github.com/freeeve/broadside/api/internal/repository"
	"github.com/freeeve/broadside/api/pkg/battleship"
)

var (
	ErrTemplateNotFound = errors.New("ship template not found")
	ErrFleetNotFound    = errors.New("base fleet not found")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidShipSize  = errors.New("ship size out of range")
)

// CatalogService handles the admin-managed ship template and base fleet
// catalog. Games snapshot their fleet at creation, so catalog edits never
// reach a running game.
type CatalogService struct {
	templates repository.ShipTemplateRepository
	fleets    repository.BaseFleetRepository
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(templates repository.ShipTemplateRepository, fleets repository.BaseFleetRepository) *CatalogService {
	return &CatalogService{templates: templates, fleets: fleets}
}

// resolveSpecs maps template ids to rule-level ship specs, keeping the
// list order. Repeated ids are allowed; a fleet can carry two destroyers.
func resolveSpecs(ctx context.Context, templates repository.ShipTemplateRepository, ids []string) ([]battleship.ShipSpec, error) {
	specs := make([]battleship.ShipSpec, 0, len(ids))
	for _, id := range ids {
		t, err := templates.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
		}
		specs = append(specs, battleship.ShipSpec{TemplateID: t.ID, Name: t.Name, Size: t.Size})
	}
	return specs, nil
}

func validTemplate(name string, size int) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if size < battleship.MinShipSize || size > battleship.MaxShipSize {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidShipSize, size, battleship.MinShipSize, battleship.MaxShipSize)
	}
	return nil
}

// CreateTemplate adds a ship template to the catalog.
func (s *CatalogService) CreateTemplate(ctx context.Context, name string, size int, description string) (*model.ShipTemplate, error) {
	if err := validTemplate(name, size); err != nil {
		return nil, err
	}
	t := &model.ShipTemplate{
		Name:        strings.TrimSpace(name),
		Size:        size,
		Description: description,
	}
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTemplates returns every ship template in creation order.
func (s *CatalogService) ListTemplates(ctx context.Context) ([]*model.ShipTemplate, error) {
	return s.templates.List(ctx)
}

// GetTemplate returns one ship template.
func (s *CatalogService) GetTemplate(ctx context.Context, id string) (*model.ShipTemplate, error) {
	t, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTemplateNotFound
	}
	return t, nil
}

// UpdateTemplate rewrites a template's fields. Fleets reference templates
// by id, so renames and resizes flow into future games built from them.
func (s *CatalogService) UpdateTemplate(ctx context.Context, id, name string, size int, description string) (*model.ShipTemplate, error) {
	if err := validTemplate(name, size); err != nil {
		return nil, err
	}
	t := &model.ShipTemplate{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Size:        size,
		Description: description,
	}
	if err := s.templates.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return s.GetTemplate(ctx, id)
}

// DeleteTemplate removes a template. Fleets that still reference it fail
// at game creation, not here.
func (s *CatalogService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return nil
}

// validFleet resolves the template list and checks the board and
// occupancy limits games built from the fleet will rely on.
func (s *CatalogService) validFleet(ctx context.Context, name string, boardSize int, templateIDs []string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	specs, err := resolveSpecs(ctx, s.templates, templateIDs)
	if err != nil {
		return err
	}
	return battleship.ValidateFleet(boardSize, specs)
}

// CreateFleet adds a base fleet to the catalog. The template list order
// is the order ships are placed in games built from the fleet.
func (s *CatalogService) CreateFleet(ctx context.Context, name string, boardSize int, templateIDs []string) (*model.BaseFleet, error) {
	if err := s.validFleet(ctx, name, boardSize, templateIDs); err != nil {
		return nil, err
	}
	f := &model.BaseFleet{
		Name:            strings.TrimSpace(name),
		BoardSize:       boardSize,
		ShipTemplateIDs: append([]string(nil), templateIDs...),
	}
	if err := s.fleets.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListFleets returns every base fleet in creation order.
func (s *CatalogService) ListFleets(ctx context.Context) ([]*model.BaseFleet, error) {
	return s.fleets.List(ctx)
}

// GetFleet returns one base fleet.
func (s *CatalogService) GetFleet(ctx context.Context, id string) (*model.BaseFleet, error) {
	f, err := s.fleets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFleetNotFound
	}
	return f, nil
}

// UpdateFleet rewrites a base fleet's fields after revalidating them.
func (s *CatalogService) UpdateFleet(ctx context.Context, id, name string, boardSize int, templateIDs []string) (*model.BaseFleet, error) {
	if err := s.validFleet(ctx, name, boardSize, templateIDs); err != nil {
		return nil, err
	}
	f := &model.BaseFleet{
		ID:              id,
		Name:            strings.TrimSpace(name),
		BoardSize:       boardSize,
		ShipTemplateIDs: append([]string(nil), templateIDs...),
	}
	if err := s.fleets.Update(ctx, f); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFleetNotFound
		}
		return nil, err
	}
	return s.GetFleet(ctx, id)
}

// DeleteFleet removes a base fleet. Games created from it keep their
// snapshot and keep running.
func (s *CatalogService) DeleteFleet(ctx context.Context, id string) error {
	if err := s.fleets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFleetNotFound
		}
		return err
	}
	return nil
}
