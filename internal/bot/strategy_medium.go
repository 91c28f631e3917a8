package bot

import "github.com/freeeve/broadside/api/pkg/battleship"

// mediumLapseChance is how often the medium bot ignores its chase and
// fires at random instead.
const mediumLapseChance = 0.3

// HunterStrategy plays the hunt/target heuristic but lapses into a purely
// random shot 30% of the time, so it finishes ships it finds without
// playing optimally.
type HunterStrategy struct{}

func (HunterStrategy) Name() string { return "medium" }

// NextShot picks a target-mode candidate 70% of the time the bot is
// chasing a ship, otherwise a random unshot cell.
func (HunterStrategy) NextShot(g *battleship.Game, seat battleship.Seat, ai *battleship.AIState) (battleship.Coordinate, error) {
	if botFloat64() < mediumLapseChance {
		return randomCell(g, seat)
	}
	return huntOrTarget(g, seat, ai, false)
}
