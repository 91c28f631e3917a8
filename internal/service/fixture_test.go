package service

import (
	"context"
	"testing"

	"github.com/freeeve/broadside/api/internal/model"
	"github.com/freeeve/broadside/api/internal/repository/memory"
	"github.com/freeeve/broadside/api/pkg/battleship"
)

// fixture wires the services over fresh in-memory repositories and seeds
// the classic catalog: carrier 5, battleship 4, cruiser 3, submarine 3,
// destroyer 2 on a 10x10 board.
type fixture struct {
	users   *UserService
	catalog *CatalogService
	games   *GameService

	fleetID     string
	templateIDs []string // catalog order, placement order
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	userRepo := memory.NewUserRepo()
	templateRepo := memory.NewTemplateRepo()
	fleetRepo := memory.NewFleetRepo()
	gameRepo := memory.NewGameRepo()

	fx := &fixture{
		users:   NewUserService(userRepo),
		catalog: NewCatalogService(templateRepo, fleetRepo),
		games:   NewGameService(gameRepo, fleetRepo, templateRepo, userRepo),
	}

	ctx := context.Background()
	ships := []struct {
		name string
		size int
	}{
		{"Carrier", 5},
		{"Battleship", 4},
		{"Cruiser", 3},
		{"Submarine", 3},
		{"Destroyer", 2},
	}
	for _, sh := range ships {
		tpl, err := fx.catalog.CreateTemplate(ctx, sh.name, sh.size, "")
		if err != nil {
			t.Fatalf("CreateTemplate(%s): %v", sh.name, err)
		}
		fx.templateIDs = append(fx.templateIDs, tpl.ID)
	}
	fleet, err := fx.catalog.CreateFleet(ctx, "Classic", 10, fx.templateIDs)
	if err != nil {
		t.Fatalf("CreateFleet: %v", err)
	}
	fx.fleetID = fleet.ID
	return fx
}

// newUser registers an account and returns it.
func (fx *fixture) newUser(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := fx.users.Register(context.Background(), username, "password123")
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return u
}

// placeAll lays the caller's fleet horizontally at column 1, rows 1, 3,
// 5, 7, 9, and returns the last placement result.
func (fx *fixture) placeAll(t *testing.T, gameID, userID string) *model.PlacementResult {
	t.Helper()
	var last *model.PlacementResult
	row := 1
	for i, id := range fx.templateIDs {
		res, err := fx.games.PlaceShip(context.Background(), gameID, userID, id, i, coordAt(row, 1), "horizontal")
		if err != nil {
			t.Fatalf("PlaceShip(%d): %v", i, err)
		}
		last = res
		row += 2
	}
	return last
}

// coordAt formats a 1-based cell as its wire form, e.g. (1,1) -> "A1".
func coordAt(row, col int) string {
	return battleship.Coordinate{Row: row, Col: col}.String()
}
