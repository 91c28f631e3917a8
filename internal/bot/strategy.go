package bot

import (
	"errors"
	"fmt"

	"github.com/freeeve/broadside/api/pkg/battleship"
)

// errNoCells is returned when a strategy is asked to shoot with no unshot
// cells left. A running game always has one, so seeing this means the
// caller fired outside the turn loop.
var errNoCells = errors.New("no unshot cells left")

// Strategy picks the computer's next shot for one seat.
type Strategy interface {
	Name() string
	NextShot(g *battleship.Game, seat battleship.Seat, ai *battleship.AIState) (battleship.Coordinate, error)
}

// StrategyForDifficulty returns the strategy for a bot difficulty level.
// Unknown levels play medium.
func StrategyForDifficulty(difficulty string) Strategy {
	switch difficulty {
	case "easy":
		return RandomStrategy{}
	case "hard":
		return ParityStrategy{}
	default:
		return HunterStrategy{}
	}
}

// PlayTurn fires one shot for the seat: the strategy for ai.Difficulty
// picks a cell, the game resolves it, and the outcome folds back into ai.
func PlayTurn(g *battleship.Game, seat battleship.Seat, ai *battleship.AIState) (battleship.Shot, error) {
	strat := StrategyForDifficulty(ai.Difficulty)
	c, err := strat.NextShot(g, seat, ai)
	if err != nil {
		return battleship.Shot{}, err
	}
	shot, err := g.Shoot(seat, c)
	if err != nil {
		return battleship.Shot{}, fmt.Errorf("%s strategy fired at %s: %w", strat.Name(), c, err)
	}
	Observe(ai, shot)
	return shot, nil
}

// Observe folds a resolved shot into the AI's memory: a hit joins the
// chase and switches to target mode, a sunk ship ends the chase, water
// changes nothing.
func Observe(ai *battleship.AIState, shot battleship.Shot) {
	switch shot.Result {
	case battleship.Hit:
		ai.LastHits = append(ai.LastHits, shot.Code)
		ai.Mode = battleship.AITarget
	case battleship.Sunk:
		ai.LastHits = nil
		ai.Mode = battleship.AIHunt
	}
}

// huntOrTarget is the shared medium/hard shot picker. In target mode it
// fires at a random candidate around the chased hits; with no candidates
// left it drops back to hunt mode for this and later shots. Hunting picks
// uniformly among unshot cells, optionally thinned by the parity lattice.
func huntOrTarget(g *battleship.Game, seat battleship.Seat, ai *battleship.AIState, parity bool) (battleship.Coordinate, error) {
	if ai.Mode == battleship.AITarget {
		if cands := targetCandidates(g, seat, ai); len(cands) > 0 {
			return cands[botIntn(len(cands))], nil
		}
		ai.Mode = battleship.AIHunt
	}
	if parity {
		if cells := parityCells(g, seat); len(cells) > 0 {
			return cells[botIntn(len(cells))], nil
		}
	}
	return randomCell(g, seat)
}

// randomCell picks uniformly among the seat's unshot cells.
func randomCell(g *battleship.Game, seat battleship.Seat) (battleship.Coordinate, error) {
	cells := unshotCells(g, seat)
	if len(cells) == 0 {
		return battleship.Coordinate{}, errNoCells
	}
	return cells[botIntn(len(cells))], nil
}

// unshotCells lists every cell the seat has not fired at, in board order.
func unshotCells(g *battleship.Game, seat battleship.Seat) []battleship.Coordinate {
	var out []battleship.Coordinate
	for row := 1; row <= g.BoardSize; row++ {
		for col := 1; col <= g.BoardSize; col++ {
			c := battleship.Coordinate{Row: row, Col: col}
			if !g.HasShotAt(seat, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// targetCandidates lists the in-bounds, unshot 4-neighbors of the chased
// hits. Once two or more hits line up on a row or column, only cells
// extending that line qualify; a ship is straight, so the perpendicular
// neighbors cannot be part of it.
func targetCandidates(g *battleship.Game, seat battleship.Seat, ai *battleship.AIState) []battleship.Coordinate {
	if len(ai.LastHits) == 0 {
		return nil
	}
	hits := make([]battleship.Coordinate, len(ai.LastHits))
	for i, code := range ai.LastHits {
		hits[i] = battleship.FromCode(code)
	}
	sameRow, sameCol := true, true
	for _, h := range hits[1:] {
		if h.Row != hits[0].Row {
			sameRow = false
		}
		if h.Col != hits[0].Col {
			sameCol = false
		}
	}
	lineLocked := len(hits) >= 2 && (sameRow || sameCol)

	seen := make(map[int]bool)
	var out []battleship.Coordinate
	for _, h := range hits {
		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			c := battleship.Coordinate{Row: h.Row + d[0], Col: h.Col + d[1]}
			if lineLocked {
				if sameRow && c.Row != hits[0].Row {
					continue
				}
				if sameCol && c.Col != hits[0].Col {
					continue
				}
			}
			if !c.In(g.BoardSize) || g.HasShotAt(seat, c) || seen[c.Code()] {
				continue
			}
			seen[c.Code()] = true
			out = append(out, c)
		}
	}
	return out
}

// parityCells filters the unshot cells to the lattice where
// (row+col) % minShipSize == 0. Every ship of at least that size covers a
// lattice cell, so hunting only there cannot miss the fleet. Returns nil
// once the lattice is exhausted or when size-1 ships make it pointless.
func parityCells(g *battleship.Game, seat battleship.Seat) []battleship.Coordinate {
	size := minShipSize(g)
	if size < 2 {
		return nil
	}
	var out []battleship.Coordinate
	for _, c := range unshotCells(g, seat) {
		if (c.Row+c.Col)%size == 0 {
			out = append(out, c)
		}
	}
	return out
}

// minShipSize returns the smallest ship size the fleet requires.
func minShipSize(g *battleship.Game) int {
	min := 0
	for _, sp := range g.Required() {
		if min == 0 || sp.Size < min {
			min = sp.Size
		}
	}
	return min
}
