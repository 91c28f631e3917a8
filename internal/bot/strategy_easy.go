package bot

import "github.com/freeeve/broadside/api/pkg/battleship"

// RandomStrategy fires uniformly at random among unshot cells. It never
// enters target mode, so hits go unexploited.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "easy" }

// NextShot picks a random unshot cell.
func (RandomStrategy) NextShot(g *battleship.Game, seat battleship.Seat, _ *battleship.AIState) (battleship.Coordinate, error) {
	return randomCell(g, seat)
}
