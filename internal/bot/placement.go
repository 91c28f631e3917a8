package bot

import (
	"errors"
	"fmt"

	"github.com/freeeve/broadside/api/pkg/battleship"
)

// placementAttempts caps random tries per ship. Fleets are limited to 80%
// board occupancy, so a cap this high effectively never trips on an empty
// or lightly packed board.
const placementAttempts = 1000

// ErrPlacementImpossible is returned when a ship found no free spot within
// the attempt cap.
var ErrPlacementImpossible = errors.New("no room to place ship")

// AutoPlace places all of the seat's remaining ships at random positions,
// in fleet order.
func AutoPlace(g *battleship.Game, seat battleship.Seat) error {
	for {
		spec, idx, ok := g.NextShip(seat)
		if !ok {
			return nil
		}
		if err := placeOne(g, seat, spec, idx); err != nil {
			return err
		}
	}
}

// placeOne tries random starts and orientations until the ship fits. The
// start is drawn from the rows and columns the ship can extend from, so
// only overlaps cause retries.
func placeOne(g *battleship.Game, seat battleship.Seat, spec battleship.ShipSpec, idx int) error {
	for attempt := 0; attempt < placementAttempts; attempt++ {
		o := battleship.Horizontal
		if botIntn(2) == 1 {
			o = battleship.Vertical
		}
		maxRow, maxCol := g.BoardSize, g.BoardSize
		if o == battleship.Horizontal {
			maxCol = g.BoardSize - spec.Size + 1
		} else {
			maxRow = g.BoardSize - spec.Size + 1
		}
		start := battleship.Coordinate{Row: 1 + botIntn(maxRow), Col: 1 + botIntn(maxCol)}
		_, err := g.PlaceShip(seat, spec.TemplateID, idx, start, o)
		if errors.Is(err, battleship.ErrOverlap) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: %q after %d attempts", ErrPlacementImpossible, spec.Name, placementAttempts)
}
