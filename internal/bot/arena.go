package bot

import (
	"context"
	"fmt"

	"github.com/freeeve/broadside/api/pkg/battleship"
)

// ArenaConfig configures a single bot-vs-bot game.
type ArenaConfig struct {
	Difficulty1 string
	Difficulty2 string
	BoardSize   int                   // 0 = 10
	Fleet       []battleship.ShipSpec // nil = StandardFleet
	MaxShots    int                   // 0 = two full boards
}

// ArenaResult describes the outcome of a completed arena game.
type ArenaResult struct {
	Winner     battleship.Seat `json:"winner"` // 0 when the shot cap was reached
	TotalShots int             `json:"total_shots"`
	Shots      [2]int          `json:"shots"` // per seat, player 1 first
	Hits       [2]int          `json:"hits"`
	Accuracy   [2]float64      `json:"accuracy"`
}

// RunGame plays one full game between two bot strategies in-process: both
// seats auto-place, then the strategies alternate shots until a fleet
// sinks. The game is multiplayer as far as the rules go; each seat keeps
// its own AI state here.
func RunGame(ctx context.Context, cfg ArenaConfig) (*ArenaResult, error) {
	boardSize := cfg.BoardSize
	if boardSize == 0 {
		boardSize = 10
	}
	fleet := cfg.Fleet
	if len(fleet) == 0 {
		fleet = StandardFleet()
	}
	g, err := battleship.NewGame(boardSize, battleship.Multiplayer, fleet)
	if err != nil {
		return nil, err
	}
	if err := g.Join(); err != nil {
		return nil, err
	}
	seats := [2]battleship.Seat{battleship.Player1, battleship.Player2}
	for _, seat := range seats {
		if err := AutoPlace(g, seat); err != nil {
			return nil, fmt.Errorf("auto-place player %d: %w", seat, err)
		}
	}

	states := map[battleship.Seat]*battleship.AIState{
		battleship.Player1: {Mode: battleship.AIHunt, Difficulty: cfg.Difficulty1},
		battleship.Player2: {Mode: battleship.AIHunt, Difficulty: cfg.Difficulty2},
	}
	maxShots := cfg.MaxShots
	if maxShots == 0 {
		maxShots = boardSize * boardSize * 2
	}

	result := &ArenaResult{}
	for !g.Status.Finished() && result.TotalShots < maxShots {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		seat := g.Turn
		if _, err := PlayTurn(g, seat, states[seat]); err != nil {
			return nil, fmt.Errorf("shot %d: %w", result.TotalShots, err)
		}
		result.TotalShots++
	}

	result.Winner = g.Winner
	for i, seat := range seats {
		st := g.StatsOf(seat)
		result.Shots[i] = st.TotalShots
		result.Hits[i] = st.Hits
		result.Accuracy[i] = st.Accuracy
	}
	return result, nil
}

// StandardFleet returns the classic five-ship fleet for a 10x10 board.
func StandardFleet() []battleship.ShipSpec {
	return []battleship.ShipSpec{
		{TemplateID: "carrier", Name: "Carrier", Size: 5},
		{TemplateID: "battleship", Name: "Battleship", Size: 4},
		{TemplateID: "cruiser", Name: "Cruiser", Size: 3},
		{TemplateID: "submarine", Name: "Submarine", Size: 3},
		{TemplateID: "destroyer", Name: "Destroyer", Size: 2},
	}
}
