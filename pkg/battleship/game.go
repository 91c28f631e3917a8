// Package battleship implements the rules of the game: the coordinate
// codec, the balanced occupancy indexes, per-player fleet trees, and the
// state machine that moves a match from placement through alternating
// turns to a winner.
package battleship

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidFleet       = errors.New("fleet does not fit the board")
	ErrWrongPhase         = errors.New("operation not allowed in the current game state")
	ErrGameFull           = errors.New("game already has two players")
	ErrShipMismatch       = errors.New("ship does not match the next required placement")
	ErrInvalidOrientation = errors.New("orientation must be horizontal or vertical")
	ErrOverlap            = errors.New("ship overlaps an existing ship")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrAlreadyShot        = errors.New("coordinate already shot")
	ErrCorruptState       = errors.New("occupancy index and fleet tree disagree")
)

// Status tracks the game state machine. Both players place ships at the
// same time; once one side finishes, the status narrows to the setup
// state of whoever is still placing.
type Status string

const (
	StatusWaitingForPlayer2 Status = "waiting_for_player2"
	StatusPlacingShips      Status = "placing_ships"
	StatusPlayer1Setup      Status = "player1_setup"
	StatusPlayer2Setup      Status = "player2_setup"
	StatusPlayer1Turn       Status = "player1_turn"
	StatusPlayer2Turn       Status = "player2_turn"
	StatusPlayer1Won        Status = "player1_won"
	StatusPlayer2Won        Status = "player2_won"
)

// Placing reports whether any ship placement is still allowed.
func (s Status) Placing() bool {
	return s == StatusPlacingShips || s == StatusPlayer1Setup || s == StatusPlayer2Setup
}

// InProgress reports whether shots are being exchanged.
func (s Status) InProgress() bool {
	return s == StatusPlayer1Turn || s == StatusPlayer2Turn
}

// Finished reports whether the game is over.
func (s Status) Finished() bool {
	return s == StatusPlayer1Won || s == StatusPlayer2Won
}

// Phase collapses the status into the coarse phase used by list views:
// waiting_for_player2, placing_ships, in_progress, or finished.
func (s Status) Phase() string {
	switch {
	case s.Placing():
		return "placing_ships"
	case s.InProgress():
		return "in_progress"
	case s.Finished():
		return "finished"
	default:
		return string(s)
	}
}

// Mode distinguishes a match against the computer from one between two
// people.
type Mode string

const (
	SinglePlayer Mode = "single_player"
	Multiplayer  Mode = "multiplayer"
)

// Seat identifies a side of the game independent of user identity. The
// zero value means no seat.
type Seat int

const (
	Player1 Seat = 1
	Player2 Seat = 2
)

// Opponent returns the other seat.
func (s Seat) Opponent() Seat {
	if s == Player1 {
		return Player2
	}
	return Player1
}

func (s Seat) turnStatus() Status {
	if s == Player1 {
		return StatusPlayer1Turn
	}
	return StatusPlayer2Turn
}

func (s Seat) wonStatus() Status {
	if s == Player1 {
		return StatusPlayer1Won
	}
	return StatusPlayer2Won
}

// ShipSpec describes one ship a fleet requires. The fleet list is ordered;
// ships go down in list order and the position in the list doubles as the
// ship's placement index.
type ShipSpec struct {
	TemplateID string
	Name       string
	Size       int
}

// ShotResult classifies a resolved shot.
type ShotResult string

const (
	Water ShotResult = "water"
	Hit   ShotResult = "hit"
	Sunk  ShotResult = "sunk"
)

// Shot result payloads for the fired-shots index.
const (
	waterCode = iota
	hitCode
	sunkCode
)

func shotResultCode(r ShotResult) int {
	switch r {
	case Hit:
		return hitCode
	case Sunk:
		return sunkCode
	default:
		return waterCode
	}
}

func shotResultFromCode(v int) ShotResult {
	switch v {
	case hitCode:
		return Hit
	case sunkCode:
		return Sunk
	default:
		return Water
	}
}

// Shot is one entry of a game's shot history.
type Shot struct {
	Seat       Seat
	Coordinate Coordinate
	Code       int
	Result     ShotResult
	ShipName   string // set on hit and sunk
	ShipSunk   bool
	Index      int // position in the game-wide history, strictly increasing
	Time       time.Time
}

// side is one player's half of the game state: the cells their ships
// occupy, the shots they have fired at the opponent, and their fleet tree.
type side struct {
	occupied *BST // ship cell code -> placement index into the fleet list
	shots    *BST // fired code -> shot result
	fleet    *Fleet
	placed   int // ships placed so far, indexes the required list
}

func newSide() *side {
	return &side{occupied: &BST{}, shots: &BST{}, fleet: NewFleet()}
}

// AIMode switches the computer player between scanning for new ships and
// finishing one it has already found.
type AIMode string

const (
	AIHunt   AIMode = "hunt"
	AITarget AIMode = "target"
)

// AIState is the computer player's memory between shots in a
// single-player game. It lives inside the game record and mutates under
// the same lock as everything else in the game.
type AIState struct {
	Mode       AIMode
	Difficulty string
	LastHits   []int // codes of unresolved hits on the ship being chased
}

// Game holds the full rules state for one match. It is not safe for
// concurrent use; callers serialize access per game.
type Game struct {
	BoardSize int
	Mode      Mode
	Status    Status
	Turn      Seat     // meaningful while InProgress
	Winner    Seat     // meaningful once Finished
	AI        *AIState // non-nil in single-player games

	required []ShipSpec
	sides    [2]*side
	history  []Shot
}

// Fleet size limits.
const (
	MinShipSize = 1
	MaxShipSize = 10
)

// ValidateFleet checks board and ship size limits: every ship between
// MinShipSize and MaxShipSize, total ship cells at most 80% of the board.
func ValidateFleet(boardSize int, ships []ShipSpec) error {
	if boardSize < MinBoardSize || boardSize > MaxBoardSize {
		return fmt.Errorf("%w: board size %d not in [%d, %d]", ErrInvalidFleet, boardSize, MinBoardSize, MaxBoardSize)
	}
	if len(ships) == 0 {
		return fmt.Errorf("%w: fleet has no ships", ErrInvalidFleet)
	}
	total := 0
	for _, sp := range ships {
		if sp.Size < MinShipSize || sp.Size > MaxShipSize {
			return fmt.Errorf("%w: ship %q size %d not in [%d, %d]", ErrInvalidFleet, sp.Name, sp.Size, MinShipSize, MaxShipSize)
		}
		total += sp.Size
	}
	if limit := boardSize * boardSize * 4 / 5; total > limit {
		return fmt.Errorf("%w: %d ship cells exceed the %d-cell limit", ErrInvalidFleet, total, limit)
	}
	return nil
}

// NewGame validates the fleet and returns a game in its initial status:
// waiting_for_player2 for multiplayer, placing_ships for single-player.
// Single-player games start with the computer in hunt mode; the caller
// places its ships and sets the difficulty.
func NewGame(boardSize int, mode Mode, fleet []ShipSpec) (*Game, error) {
	if err := ValidateFleet(boardSize, fleet); err != nil {
		return nil, err
	}
	g := &Game{
		BoardSize: boardSize,
		Mode:      mode,
		Status:    StatusPlacingShips,
		required:  append([]ShipSpec(nil), fleet...),
	}
	g.sides[0] = newSide()
	g.sides[1] = newSide()
	if mode == Multiplayer {
		g.Status = StatusWaitingForPlayer2
	} else {
		g.AI = &AIState{Mode: AIHunt}
	}
	return g, nil
}

func (g *Game) side(s Seat) *side { return g.sides[s-1] }

// Join moves a multiplayer game out of the lobby once the second player
// arrives. Who may join is the caller's concern; the rules only gate on
// mode and status.
func (g *Game) Join() error {
	if g.Mode != Multiplayer {
		return ErrWrongPhase
	}
	if g.Status != StatusWaitingForPlayer2 {
		return ErrGameFull
	}
	g.Status = StatusPlacingShips
	return nil
}

// Required returns the fleet list the game was created with.
func (g *Game) Required() []ShipSpec {
	return append([]ShipSpec(nil), g.required...)
}

// NextShip returns the next ship the seat must place and its placement
// index, or ok=false when the seat has placed everything.
func (g *Game) NextShip(seat Seat) (ShipSpec, int, bool) {
	sd := g.side(seat)
	if sd.placed >= len(g.required) {
		return ShipSpec{}, 0, false
	}
	return g.required[sd.placed], sd.placed, true
}

// ShipsToPlace returns how many ships the seat still has to place.
func (g *Game) ShipsToPlace(seat Seat) int {
	return len(g.required) - g.side(seat).placed
}

// PendingShip pairs an unplaced ship with the index PlaceShip expects.
type PendingShip struct {
	Spec           ShipSpec
	PlacementIndex int
}

// RemainingShips lists the ships the seat still has to place, in order.
func (g *Game) RemainingShips(seat Seat) []PendingShip {
	sd := g.side(seat)
	out := make([]PendingShip, 0, len(g.required)-sd.placed)
	for i := sd.placed; i < len(g.required); i++ {
		out = append(out, PendingShip{Spec: g.required[i], PlacementIndex: i})
	}
	return out
}

// PlaceShip places the seat's next required ship. The template must match
// the next unplaced ship in the fleet list, and placementIndex, when
// non-negative, must equal that ship's index; fleets carrying the same
// template twice rely on it to disambiguate. Segment codes bulk-load into
// the seat's occupancy index after the overlap check, so the index stays
// balanced.
func (g *Game) PlaceShip(seat Seat, templateID string, placementIndex int, start Coordinate, o Orientation) (ShipView, error) {
	if !g.placementOpen(seat) {
		return ShipView{}, ErrWrongPhase
	}
	spec, idx, ok := g.NextShip(seat)
	if !ok {
		return ShipView{}, fmt.Errorf("%w: all ships already placed", ErrWrongPhase)
	}
	if spec.TemplateID != templateID {
		return ShipView{}, fmt.Errorf("%w: next is %q", ErrShipMismatch, spec.TemplateID)
	}
	if placementIndex >= 0 && placementIndex != idx {
		return ShipView{}, fmt.Errorf("%w: next placement index is %d", ErrShipMismatch, idx)
	}
	if !o.Valid() {
		return ShipView{}, fmt.Errorf("%w: %q", ErrInvalidOrientation, o)
	}

	coords, err := SegmentCoords(start, o, spec.Size, g.BoardSize)
	if err != nil {
		return ShipView{}, err
	}
	sd := g.side(seat)
	entries := make([]Entry, len(coords))
	for i, c := range coords {
		if sd.occupied.Contains(c.Code()) {
			return ShipView{}, fmt.Errorf("%w at %s", ErrOverlap, c)
		}
		entries[i] = Entry{Code: c.Code(), Value: idx}
	}
	sd.occupied.InsertMany(entries)
	sd.fleet.AddShip(spec, idx, coords)
	sd.placed++
	g.advancePlacement()

	view, _ := sd.fleet.Ship(idx)
	return view, nil
}

// placementOpen reports whether the seat may place a ship in the current
// status. During the setup tail only the side that still has ships left
// is open.
func (g *Game) placementOpen(seat Seat) bool {
	switch g.Status {
	case StatusPlacingShips:
		return true
	case StatusPlayer1Setup:
		return seat == Player1
	case StatusPlayer2Setup:
		return seat == Player2
	default:
		return false
	}
}

// advancePlacement recomputes the placement-phase status after a ship
// goes down, handing the first turn to player 1 once both sides are done.
// Single-player games skip the setup statuses: the computer's ships are
// already down when the human starts placing.
func (g *Game) advancePlacement() {
	p1done := g.sides[0].placed == len(g.required)
	p2done := g.sides[1].placed == len(g.required)
	if p1done && p2done {
		g.Status = StatusPlayer1Turn
		g.Turn = Player1
		return
	}
	if g.Mode != Multiplayer {
		return
	}
	switch {
	case p1done:
		g.Status = StatusPlayer2Setup
	case p2done:
		g.Status = StatusPlayer1Setup
	}
}

// Shoot resolves one shot from seat at the opponent's board. Water and
// repeated coordinates never reach the fleet tree; on a hit the tree
// decides whether the ship went down. The turn passes to the opponent on
// every result, and the game ends the moment the last ship sinks.
func (g *Game) Shoot(seat Seat, c Coordinate) (Shot, error) {
	if !g.Status.InProgress() {
		return Shot{}, ErrWrongPhase
	}
	if g.Turn != seat {
		return Shot{}, ErrNotYourTurn
	}
	if !c.In(g.BoardSize) {
		return Shot{}, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	code := c.Code()
	me, opp := g.side(seat), g.side(seat.Opponent())
	if me.shots.Contains(code) {
		return Shot{}, fmt.Errorf("%w: %s", ErrAlreadyShot, c)
	}

	shot := Shot{
		Seat:       seat,
		Coordinate: c,
		Code:       code,
		Result:     Water,
		Index:      len(g.history),
		Time:       time.Now().UTC(),
	}
	if idx, ok := opp.occupied.Lookup(code); ok {
		found, sunk := opp.fleet.MarkHit(code)
		if !found {
			return Shot{}, fmt.Errorf("%w: code %d", ErrCorruptState, code)
		}
		shot.Result = Hit
		shot.ShipName = g.required[idx].Name
		if sunk {
			shot.Result = Sunk
			shot.ShipSunk = true
		}
	}
	me.shots.Insert(code, shotResultCode(shot.Result))
	g.history = append(g.history, shot)

	if opp.fleet.AllSunk() {
		g.Winner = seat
		g.Turn = 0
		g.Status = seat.wonStatus()
		return shot, nil
	}
	g.Turn = seat.Opponent()
	g.Status = g.Turn.turnStatus()
	return shot, nil
}

// HasShotAt reports whether the seat already fired at c.
func (g *Game) HasShotAt(seat Seat, c Coordinate) bool {
	return g.side(seat).shots.Contains(c.Code())
}

// ShotCell is one fired cell with its result, for board views.
type ShotCell struct {
	Coordinate Coordinate
	Code       int
	Result     ShotResult
}

// ShotsBy returns the seat's fired cells with results, ascending by code.
func (g *Game) ShotsBy(seat Seat) []ShotCell {
	entries := g.side(seat).shots.InOrder()
	out := make([]ShotCell, len(entries))
	for i, e := range entries {
		out[i] = ShotCell{Coordinate: FromCode(e.Code), Code: e.Code, Result: shotResultFromCode(e.Value)}
	}
	return out
}

// ShotCount returns how many shots the seat has fired.
func (g *Game) ShotCount(seat Seat) int { return g.side(seat).shots.Size() }

// History returns the game-wide shot log in firing order.
func (g *Game) History() []Shot {
	return append([]Shot(nil), g.history...)
}

// HistoryOf returns only the shots fired by seat, preserving order.
func (g *Game) HistoryOf(seat Seat) []Shot {
	var out []Shot
	for _, s := range g.history {
		if s.Seat == seat {
			out = append(out, s)
		}
	}
	return out
}

// FleetOf returns the seat's placed ships in placement order.
func (g *Game) FleetOf(seat Seat) []ShipView {
	return g.side(seat).fleet.Ships()
}

// SunkOf returns only the seat's sunk ships, for revealing an opponent's
// losses without exposing the rest of their board.
func (g *Game) SunkOf(seat Seat) []ShipView {
	var out []ShipView
	for _, sv := range g.side(seat).fleet.Ships() {
		if sv.Sunk {
			out = append(out, sv)
		}
	}
	return out
}

// AliveShips returns how many of the seat's ships are still afloat.
func (g *Game) AliveShips(seat Seat) int { return g.side(seat).fleet.AliveShipCount() }

// SunkShips returns how many of the seat's ships are fully hit.
func (g *Game) SunkShips(seat Seat) int { return g.side(seat).fleet.SunkShipCount() }

// Stats summarizes one seat's game so far.
type Stats struct {
	TotalShots     int
	Hits           int
	Misses         int
	Accuracy       float64 // hit percentage rounded to two decimals, 0 with no shots
	ShipsTotal     int
	ShipsSunk      int // own ships lost
	ShipsRemaining int
	EnemySunk      int
}

// StatsOf computes shot and fleet aggregates for the seat.
func (g *Game) StatsOf(seat Seat) Stats {
	st := Stats{ShipsTotal: len(g.required)}
	for _, s := range g.history {
		if s.Seat != seat {
			continue
		}
		st.TotalShots++
		if s.Result == Water {
			st.Misses++
		} else {
			st.Hits++
		}
	}
	if st.TotalShots > 0 {
		st.Accuracy = math.Round(float64(st.Hits)/float64(st.TotalShots)*10000) / 100
	}
	own := g.side(seat).fleet
	st.ShipsSunk = own.SunkShipCount()
	st.ShipsRemaining = own.AliveShipCount()
	st.EnemySunk = g.side(seat.Opponent()).fleet.SunkShipCount()
	return st
}
