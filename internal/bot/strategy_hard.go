package bot

import "github.com/freeeve/broadside/api/pkg/battleship"

// ParityStrategy plays hunt/target and hunts only on the parity lattice
// for the fleet's smallest ship, roughly halving the shots spent finding
// ships on a classic fleet.
type ParityStrategy struct{}

func (ParityStrategy) Name() string { return "hard" }

// NextShot chases known hits first and hunts the parity lattice otherwise.
func (ParityStrategy) NextShot(g *battleship.Game, seat battleship.Seat, ai *battleship.AIState) (battleship.Coordinate, error) {
	return huntOrTarget(g, seat, ai, true)
}
