package model

import (
	"time"

	"github.com/freeeve/broadside/api/pkg/battleship"
)

// User roles.
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// User is a registered account. Password logins keep a bcrypt hash;
// Google sign-ins keep the provider pair instead.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Provider     string    `json:"provider,omitempty"`
	ProviderID   string    `json:"provider_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ShipTemplate is an admin-managed ship type that fleets are built from.
type ShipTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        int       `json:"size"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BaseFleet is an ordered list of ship templates plus the board size
// games created from it use. The order is the order ships must be placed.
type BaseFleet struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	BoardSize       int       `json:"board_size"`
	ShipTemplateIDs []string  `json:"ship_template_ids"`
	CreatedAt       time.Time `json:"created_at"`
}

// Game wraps the rules state with identity: who sits where, which fleet
// the game was created from, and lifecycle timestamps. The embedded rules
// state never serializes; handlers return the view types below instead.
type Game struct {
	ID            string
	BaseFleetID   string
	BaseFleetName string
	Mode          battleship.Mode
	Difficulty    string
	Player1ID     string
	Player2ID     string // empty until someone joins; stays empty against the computer
	State         *battleship.Game
	CreatedAt     time.Time
	StartedAt     *time.Time
	FinishedAt    *time.Time
}

// SeatOf maps a user to their seat, or 0 if they are not in the game.
func (g *Game) SeatOf(userID string) battleship.Seat {
	switch {
	case userID != "" && userID == g.Player1ID:
		return battleship.Player1
	case userID != "" && userID == g.Player2ID:
		return battleship.Player2
	default:
		return 0
	}
}

// UserAt returns the user occupying a seat; empty for the computer.
func (g *Game) UserAt(seat battleship.Seat) string {
	switch seat {
	case battleship.Player1:
		return g.Player1ID
	case battleship.Player2:
		return g.Player2ID
	default:
		return ""
	}
}

// SeatName is the wire name of a seat: "player1", "player2", or "" for
// no seat.
func SeatName(seat battleship.Seat) string {
	switch seat {
	case battleship.Player1:
		return "player1"
	case battleship.Player2:
		return "player2"
	default:
		return ""
	}
}

// GameView is the wire shape of a game for create, join, get, and lists.
type GameView struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	Phase         string            `json:"phase"`
	Mode          string            `json:"mode"`
	Difficulty    string            `json:"difficulty,omitempty"`
	BoardSize     int               `json:"board_size"`
	BaseFleetID   string            `json:"base_fleet_id"`
	BaseFleetName string            `json:"base_fleet_name,omitempty"`
	ShipCount     int               `json:"ship_count"`
	Player1ID     string            `json:"player1_id"`
	Player2ID     string            `json:"player2_id,omitempty"`
	CurrentTurn   string            `json:"current_turn,omitempty"`
	CurrentTurnID string            `json:"current_turn_player_id,omitempty"`
	Winner        string            `json:"winner,omitempty"`
	WinnerID      string            `json:"winner_id,omitempty"`
	ShipsToPlace  []PendingShipView `json:"ships_to_place,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	StartedAt     *time.Time        `json:"started_at,omitempty"`
	FinishedAt    *time.Time        `json:"finished_at,omitempty"`
}

// NewGameView maps the shared, seat-independent fields of a game.
// Callers fill ShipsToPlace for the viewer where it applies.
func NewGameView(g *Game) GameView {
	v := GameView{
		ID:            g.ID,
		Status:        string(g.State.Status),
		Phase:         g.State.Status.Phase(),
		Mode:          string(g.Mode),
		Difficulty:    g.Difficulty,
		BoardSize:     g.State.BoardSize,
		BaseFleetID:   g.BaseFleetID,
		BaseFleetName: g.BaseFleetName,
		ShipCount:     len(g.State.Required()),
		Player1ID:     g.Player1ID,
		Player2ID:     g.Player2ID,
		CreatedAt:     g.CreatedAt,
		StartedAt:     g.StartedAt,
		FinishedAt:    g.FinishedAt,
	}
	if g.State.Status.InProgress() {
		v.CurrentTurn = SeatName(g.State.Turn)
		v.CurrentTurnID = g.UserAt(g.State.Turn)
	}
	if g.State.Status.Finished() {
		v.Winner = SeatName(g.State.Winner)
		v.WinnerID = g.UserAt(g.State.Winner)
	}
	return v
}

// PendingShipView is one ship the caller still has to place.
type PendingShipView struct {
	ShipTemplateID string `json:"ship_template_id"`
	Name           string `json:"name"`
	Size           int    `json:"size"`
	PlacementIndex int    `json:"placement_index"`
}

// PendingShips maps rule-level pending placements to their wire shape.
func PendingShips(pending []battleship.PendingShip) []PendingShipView {
	out := make([]PendingShipView, len(pending))
	for i, p := range pending {
		out[i] = PendingShipView{
			ShipTemplateID: p.Spec.TemplateID,
			Name:           p.Spec.Name,
			Size:           p.Spec.Size,
			PlacementIndex: p.PlacementIndex,
		}
	}
	return out
}

// Ship is the wire shape of a placed ship.
type Ship struct {
	ShipTemplateID string    `json:"ship_template_id"`
	Name           string    `json:"name"`
	Size           int       `json:"size"`
	PlacementIndex int       `json:"placement_index"`
	Sunk           bool      `json:"sunk"`
	Segments       []Segment `json:"segments"`
}

// Segment is one cell of a placed ship.
type Segment struct {
	Coordinate string `json:"coordinate"`
	Code       int    `json:"code"`
	Hit        bool   `json:"hit"`
}

// ShipFromView maps a rules-level ship snapshot to its wire shape.
func ShipFromView(v battleship.ShipView) Ship {
	s := Ship{
		ShipTemplateID: v.TemplateID,
		Name:           v.Name,
		Size:           v.Size,
		PlacementIndex: v.PlacementIndex,
		Sunk:           v.Sunk,
		Segments:       make([]Segment, len(v.Segments)),
	}
	for i, seg := range v.Segments {
		s.Segments[i] = Segment{
			Coordinate: seg.Coordinate.String(),
			Code:       seg.Code,
			Hit:        seg.Hit,
		}
	}
	return s
}

// ShipsFromViews maps a slice of ship snapshots.
func ShipsFromViews(views []battleship.ShipView) []Ship {
	out := make([]Ship, len(views))
	for i, v := range views {
		out[i] = ShipFromView(v)
	}
	return out
}

// ShotMark is one fired cell on a board view.
type ShotMark struct {
	Coordinate string `json:"coordinate"`
	Code       int    `json:"code"`
	Result     string `json:"result"`
}

// ShotMarks maps fired cells to their wire shape.
func ShotMarks(cells []battleship.ShotCell) []ShotMark {
	out := make([]ShotMark, len(cells))
	for i, c := range cells {
		out[i] = ShotMark{
			Coordinate: c.Coordinate.String(),
			Code:       c.Code,
			Result:     string(c.Result),
		}
	}
	return out
}

// BoardView is the caller's redacted picture of a game: their own ships
// in full, both sides' shots, and only the sunk part of the opponent's
// fleet.
type BoardView struct {
	GameID           string            `json:"game_id"`
	Status           string            `json:"status"`
	Phase            string            `json:"phase"`
	Mode             string            `json:"mode"`
	BoardSize        int               `json:"board_size"`
	MyTurn           bool              `json:"my_turn"`
	CurrentTurn      string            `json:"current_turn,omitempty"`
	MyUsername       string            `json:"my_username,omitempty"`
	OpponentUsername string            `json:"opponent_username,omitempty"`
	MyShips          []Ship            `json:"my_ships"`
	MyShots          []ShotMark        `json:"my_shots"`
	OpponentShots    []ShotMark        `json:"opponent_shots"`
	OpponentSunk     []Ship            `json:"opponent_sunk_ships"`
	ShipsToPlace     []PendingShipView `json:"ships_to_place,omitempty"`
	Winner           string            `json:"winner,omitempty"`
	WinnerID         string            `json:"winner_id,omitempty"`
}

// AvailableGames lists games waiting for a second player.
type AvailableGames struct {
	Total int        `json:"total"`
	Games []GameView `json:"games"`
}

// GameSummary pairs a game view with the caller's aggregates, for the
// my-games listing.
type GameSummary struct {
	GameView
	Stats *GameStats `json:"stats,omitempty"`
}

// PlacementResult is the response to placing a ship.
type PlacementResult struct {
	GameID       string            `json:"game_id"`
	Ship         Ship              `json:"ship"`
	ShipsToPlace []PendingShipView `json:"ships_remaining_to_place"`
	Status       string            `json:"status"`
	Phase        string            `json:"phase"`
}

// ShotOutcome is the response to firing a shot. AIShot carries the
// computer's follow-up in single-player games that are still running.
type ShotOutcome struct {
	Coordinate     string       `json:"coordinate"`
	CoordinateCode int          `json:"coordinate_code"`
	Result         string       `json:"result"`
	ShipName       string       `json:"ship_name,omitempty"`
	ShipSunk       bool         `json:"ship_sunk"`
	GameFinished   bool         `json:"game_finished"`
	Winner         string       `json:"winner,omitempty"`
	WinnerID       string       `json:"winner_id,omitempty"`
	AIShot         *ShotOutcome `json:"ai_shot,omitempty"`
}

// ShotRecord is one history entry returned by the shots endpoint.
type ShotRecord struct {
	Index          int       `json:"index"`
	Coordinate     string    `json:"coordinate"`
	CoordinateCode int       `json:"coordinate_code"`
	Result         string    `json:"result"`
	ShipName       string    `json:"ship_name,omitempty"`
	ShipSunk       bool      `json:"ship_sunk"`
	Timestamp      time.Time `json:"timestamp"`
}

// ShotRecords maps history shots to their wire shape.
func ShotRecords(shots []battleship.Shot) []ShotRecord {
	out := make([]ShotRecord, len(shots))
	for i, s := range shots {
		out[i] = ShotRecord{
			Index:          s.Index,
			Coordinate:     s.Coordinate.String(),
			CoordinateCode: s.Code,
			Result:         string(s.Result),
			ShipName:       s.ShipName,
			ShipSunk:       s.ShipSunk,
			Timestamp:      s.Time,
		}
	}
	return out
}

// ShotHistory wraps a player's shot log for one game.
type ShotHistory struct {
	GameID string       `json:"game_id"`
	Total  int          `json:"total"`
	Shots  []ShotRecord `json:"shots"`
}

// GameStats is the per-player aggregate view of one game.
type GameStats struct {
	GameID          string  `json:"game_id"`
	Status          string  `json:"status"`
	Phase           string  `json:"phase"`
	TotalShots      int     `json:"total_shots"`
	Hits            int     `json:"hits"`
	Misses          int     `json:"misses"`
	Accuracy        float64 `json:"accuracy"`
	ShipsTotal      int     `json:"ships_total"`
	MyShipsSunk     int     `json:"my_ships_sunk"`
	MyShipsLeft     int     `json:"my_ships_remaining"`
	EnemyShipsSunk  int     `json:"enemy_ships_sunk"`
	DurationSeconds float64 `json:"game_duration_seconds"`
	Winner          string  `json:"winner,omitempty"`
	WinnerID        string  `json:"winner_id,omitempty"`
}
