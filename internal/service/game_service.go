package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/broadside/api/internal/bot"
	"github.com/freeeve/broadside/api/internal/model"
	"github.com/freeeve/broadside/api/internal/repository"
	"github.com/freeeve/broadside/api/pkg/battleship"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrNotParticipant    = errors.New("you are not in this game")
	ErrCannotJoinOwn     = errors.New("cannot join your own game")
	ErrAlreadyJoined     = errors.New("already joined this game")
	ErrNotCreator        = errors.New("only the creator can delete a running game")
	ErrInvalidMode       = errors.New("invalid game mode")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// GameService handles game lifecycle operations: creation, joining, ship
// placement, shooting, and the listings built on top. Every operation on
// one game runs under that game's lock, so two shots at the same game
// serialize and the computer's reply lands in the same critical section
// as the shot it answers.
type GameService struct {
	games     repository.GameRepository
	fleets    repository.BaseFleetRepository
	templates repository.ShipTemplateRepository
	users     repository.UserRepository

	locks sync.Map // game id -> *sync.RWMutex
}

// NewGameService creates a GameService.
func NewGameService(games repository.GameRepository, fleets repository.BaseFleetRepository, templates repository.ShipTemplateRepository, users repository.UserRepository) *GameService {
	return &GameService{games: games, fleets: fleets, templates: templates, users: users}
}

// lockFor returns the lock guarding one game, creating it on first use.
// Distinct games get distinct locks and never contend with each other.
func (s *GameService) lockFor(gameID string) *sync.RWMutex {
	mu, _ := s.locks.LoadOrStore(gameID, &sync.RWMutex{})
	return mu.(*sync.RWMutex)
}

// find loads a game or reports ErrGameNotFound. Callers hold the game's
// lock whenever they touch mutable state on the result.
func (s *GameService) find(ctx context.Context, gameID string) (*model.Game, error) {
	g, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// CreateGame starts a game from a base fleet. Mode defaults to
// single_player and difficulty to medium. Single-player games get the
// computer's ships placed before the game is visible to anyone;
// multiplayer games open in waiting_for_player2.
func (s *GameService) CreateGame(ctx context.Context, userID, baseFleetID, mode, difficulty string) (*model.GameView, error) {
	gameMode := battleship.Mode(mode)
	if mode == "" {
		gameMode = battleship.SinglePlayer
	}
	switch gameMode {
	case battleship.SinglePlayer:
		if difficulty == "" {
			difficulty = "medium"
		}
		if difficulty != "easy" && difficulty != "medium" && difficulty != "hard" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDifficulty, difficulty)
		}
	case battleship.Multiplayer:
		difficulty = ""
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	fleet, err := s.fleets.FindByID(ctx, baseFleetID)
	if err != nil {
		return nil, err
	}
	if fleet == nil {
		return nil, ErrFleetNotFound
	}
	specs, err := resolveSpecs(ctx, s.templates, fleet.ShipTemplateIDs)
	if err != nil {
		return nil, err
	}

	state, err := battleship.NewGame(fleet.BoardSize, gameMode, specs)
	if err != nil {
		return nil, err
	}
	g := &model.Game{
		BaseFleetID:   fleet.ID,
		BaseFleetName: fleet.Name,
		Mode:          gameMode,
		Difficulty:    difficulty,
		Player1ID:     userID,
		State:         state,
	}
	if gameMode == battleship.SinglePlayer {
		state.AI.Difficulty = difficulty
		if err := bot.AutoPlace(state, battleship.Player2); err != nil {
			return nil, fmt.Errorf("place computer fleet: %w", err)
		}
	}
	if err := s.games.Create(ctx, g); err != nil {
		return nil, err
	}
	return s.viewFor(g, userID), nil
}

// JoinGame seats the caller as player2 in a waiting multiplayer game.
func (s *GameService) JoinGame(ctx context.Context, gameID, userID string) (*model.GameView, error) {
	mu := s.lockFor(gameID)
	mu.Lock()
	defer mu.Unlock()

	g, err := s.find(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Player1ID == userID {
		return nil, ErrCannotJoinOwn
	}
	if g.Player2ID == userID {
		return nil, ErrAlreadyJoined
	}
	if err := g.State.Join(); err != nil {
		return nil, err
	}
	g.Player2ID = userID
	return s.viewFor(g, userID), nil
}

// PlaceShip places the caller's next ship. placementIndex below zero
// means unspecified; fleets carrying a template twice need it set. When
// the last ship lands the game flips to player1_turn and StartedAt is
// stamped.
func (s *GameService) PlaceShip(ctx context.Context, gameID, userID, templateID string, placementIndex int, coordinate, orientation string) (*model.PlacementResult, error) {
	start, err := battleship.ParseCoordinate(coordinate)
	if err != nil {
		return nil, err
	}

	mu := s.lockFor(gameID)
	mu.Lock()
	defer mu.Unlock()

	g, err := s.find(ctx, gameID)
	if err != nil {
		return nil, err
	}
	seat := g.SeatOf(userID)
	if seat == 0 {
		return nil, ErrNotParticipant
	}
	placed, err := g.State.PlaceShip(seat, templateID, placementIndex, start, battleship.Orientation(orientation))
	if err != nil {
		return nil, err
	}
	if g.State.Status.InProgress() && g.StartedAt == nil {
		now := time.Now().UTC()
		g.StartedAt = &now
	}
	return &model.PlacementResult{
		GameID:       g.ID,
		Ship:         model.ShipFromView(placed),
		ShipsToPlace: model.PendingShips(g.State.RemainingShips(seat)),
		Status:       string(g.State.Status),
		Phase:        g.State.Status.Phase(),
	}, nil
}

// Shoot fires at a coordinate. In single-player games the computer fires
// back inside the same critical section, so no request can observe the
// board between the two shots; the reply rides along as AIShot. The
// outer outcome's finished fields reflect the state after both shots.
func (s *GameService) Shoot(ctx context.Context, gameID, userID, coordinate string) (*model.ShotOutcome, error) {
	c, err := battleship.ParseCoordinate(coordinate)
	if err != nil {
		return nil, err
	}

	mu := s.lockFor(gameID)
	mu.Lock()
	defer mu.Unlock()

	g, err := s.find(ctx, gameID)
	if err != nil {
		return nil, err
	}
	seat := g.SeatOf(userID)
	if seat == 0 {
		return nil, ErrNotParticipant
	}
	shot, err := g.State.Shoot(seat, c)
	if err != nil {
		logCorrupt(gameID, err)
		return nil, err
	}
	out := shotOutcome(shot)

	if g.Mode == battleship.SinglePlayer && !g.State.Status.Finished() {
		reply, err := bot.PlayTurn(g.State, battleship.Player2, g.State.AI)
		if err != nil {
			logCorrupt(gameID, err)
			return nil, fmt.Errorf("computer reply: %w", err)
		}
		out.AIShot = shotOutcome(reply)
		markFinished(g, out.AIShot)
	}
	markFinished(g, out)
	noteFinished(g)
	return out, nil
}

// logCorrupt records an engine consistency failure. The state is never
// repaired in place; the error surfaces to the caller as-is.
func logCorrupt(gameID string, err error) {
	if errors.Is(err, battleship.ErrCorruptState) {
		log.Error().Err(err).Str("game_id", gameID).Msg("game state corrupt")
	}
}

// shotOutcome maps one resolved shot to its wire shape.
func shotOutcome(shot battleship.Shot) *model.ShotOutcome {
	return &model.ShotOutcome{
		Coordinate:     shot.Coordinate.String(),
		CoordinateCode: shot.Code,
		Result:         string(shot.Result),
		ShipName:       shot.ShipName,
		ShipSunk:       shot.ShipSunk,
	}
}

// markFinished copies the terminal status into an outcome once the game
// is over.
func markFinished(g *model.Game, out *model.ShotOutcome) {
	if !g.State.Status.Finished() {
		return
	}
	out.GameFinished = true
	out.Winner = model.SeatName(g.State.Winner)
	out.WinnerID = g.UserAt(g.State.Winner)
}

// noteFinished stamps FinishedAt the first time a game goes terminal.
func noteFinished(g *model.Game) {
	if g.State.Status.Finished() && g.FinishedAt == nil {
		now := time.Now().UTC()
		g.FinishedAt = &now
	}
}

// Game returns the caller's view of one game.
func (s *GameService) Game(ctx context.Context, gameID, userID string) (*model.GameView, error) {
	mu := s.lockFor(gameID)
	mu.RLock()
	defer mu.RUnlock()

	g, err := s.find(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return s.viewFor(g, userID), nil
}

// Board returns the caller's redacted picture of a game: own ships with
// hit state, both shot logs, and only the sunk part of the enemy fleet.
func (s *GameService) Board(ctx context.Context, gameID, userID string) (*model.BoardView, error) {
	mu := s.lockFor(gameID)
	mu.RLock()
	defer mu.RUnlock()

	g, err := s.find(ctx, gameID)
	if err != nil {
		return nil, err
	}
	seat := g.SeatOf(userID)
	if seat == 0 {
		return nil, ErrNotParticipant
	}
	opp := seat.Opponent()
	v := &model.BoardView{
		GameID:           g.ID,
		Status:           string(g.State.Status),
		Phase:            g.State.Status.Phase(),
		Mode:             string(g.Mode),
		BoardSize:        g.State.BoardSize,
		MyUsername:       s.username(ctx, g.UserAt(seat)),
		OpponentUsername: s.opponentName(ctx, g, opp),
		MyShips:          model.ShipsFromViews(g.State.FleetOf(seat)),
		MyShots:          model.ShotMarks(g.State.ShotsBy(seat)),
		OpponentShots:    model.ShotMarks(g.State.ShotsBy(opp)),
		OpponentSunk:     model.ShipsFromViews(g.State.SunkOf(opp)),
	}
	if g.State.Status.Placing() {
		v.ShipsToPlace = model.PendingShips(g.State.RemainingShips(seat))
	}
	if g.State.Status.InProgress() {
		v.MyTurn = g.State.Turn == seat
		v.CurrentTurn = model.SeatName(g.State.Turn)
	}
	if g.State.Status.Finished() {
		v.Winner = model.SeatName(g.State.Winner)
		v.WinnerID = g.UserAt(g.State.Winner)
	}
	return v, nil
}

// Stats returns the caller's shot and fleet aggregates for a game.
func (s *GameService) Stats(ctx context.Context, gameID, userID string) (*model.GameStats, error) {
	mu := s.lockFor(gameID)
	mu.RLock()
	defer mu.RUnlock()

	g, err := s.find(ctx, gameID)
	if err != nil {
		return nil, err
	}
	seat := g.SeatOf(userID)
	if seat == 0 {
		return nil, ErrNotParticipant
	}
	return statsFor(g, seat), nil
}

// ShotHistory returns the caller's own shots in firing order.
func (s *GameService) ShotHistory(ctx context.Context, gameID, userID string) (*model.ShotHistory, error) {
	mu := s.lockFor(gameID)
	mu.RLock()
	defer mu.RUnlock()

	g, err := s.find(ctx, gameID)
	if err != nil {
		return nil, err
	}
	seat := g.SeatOf(userID)
	if seat == 0 {
		return nil, ErrNotParticipant
	}
	shots := model.ShotRecords(g.State.HistoryOf(seat))
	return &model.ShotHistory{GameID: g.ID, Total: len(shots), Shots: shots}, nil
}

// DeleteGame removes a game. While a game is running only its creator
// may delete it; once finished either participant may.
func (s *GameService) DeleteGame(ctx context.Context, gameID, userID string) error {
	mu := s.lockFor(gameID)
	mu.Lock()
	defer mu.Unlock()

	g, err := s.find(ctx, gameID)
	if err != nil {
		return err
	}
	if g.SeatOf(userID) == 0 {
		return ErrNotParticipant
	}
	if !g.State.Status.Finished() && g.Player1ID != userID {
		return ErrNotCreator
	}
	if err := s.games.Delete(ctx, gameID); err != nil {
		return err
	}
	s.locks.Delete(gameID)
	return nil
}

// AvailableGames lists multiplayer games waiting for a second player,
// oldest first, excluding the caller's own. limit at or below zero means
// no limit.
func (s *GameService) AvailableGames(ctx context.Context, userID string, limit int) (*model.AvailableGames, error) {
	games, err := s.games.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &model.AvailableGames{Games: []model.GameView{}}
	for _, g := range games {
		if limit > 0 && len(out.Games) >= limit {
			break
		}
		mu := s.lockFor(g.ID)
		mu.RLock()
		if g.State.Status == battleship.StatusWaitingForPlayer2 && g.Player1ID != userID {
			out.Games = append(out.Games, model.NewGameView(g))
		}
		mu.RUnlock()
	}
	out.Total = len(out.Games)
	return out, nil
}

// MyGames lists every game the caller sits in, oldest first, each with
// the caller's aggregates.
func (s *GameService) MyGames(ctx context.Context, userID string) ([]model.GameSummary, error) {
	games, err := s.games.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.GameSummary{}
	for _, g := range games {
		mu := s.lockFor(g.ID)
		mu.RLock()
		if seat := g.SeatOf(userID); seat != 0 {
			out = append(out, model.GameSummary{
				GameView: *s.viewFor(g, userID),
				Stats:    statsFor(g, seat),
			})
		}
		mu.RUnlock()
	}
	return out, nil
}

// viewFor builds a game view with the caller's pending placements filled
// in while placement is open.
func (s *GameService) viewFor(g *model.Game, userID string) *model.GameView {
	v := model.NewGameView(g)
	if seat := g.SeatOf(userID); seat != 0 && g.State.Status.Placing() {
		v.ShipsToPlace = model.PendingShips(g.State.RemainingShips(seat))
	}
	return &v
}

// statsFor builds the aggregate view for one seat. Callers hold the
// game's lock.
func statsFor(g *model.Game, seat battleship.Seat) *model.GameStats {
	st := g.State.StatsOf(seat)
	out := &model.GameStats{
		GameID:         g.ID,
		Status:         string(g.State.Status),
		Phase:          g.State.Status.Phase(),
		TotalShots:     st.TotalShots,
		Hits:           st.Hits,
		Misses:         st.Misses,
		Accuracy:       st.Accuracy,
		ShipsTotal:     st.ShipsTotal,
		MyShipsSunk:    st.ShipsSunk,
		MyShipsLeft:    st.ShipsRemaining,
		EnemyShipsSunk: st.EnemySunk,
	}
	if g.StartedAt != nil {
		end := time.Now().UTC()
		if g.FinishedAt != nil {
			end = *g.FinishedAt
		}
		out.DurationSeconds = end.Sub(*g.StartedAt).Seconds()
	}
	if g.State.Status.Finished() {
		out.Winner = model.SeatName(g.State.Winner)
		out.WinnerID = g.UserAt(g.State.Winner)
	}
	return out
}

// username resolves a user id for display; unknown and empty ids come
// back empty.
func (s *GameService) username(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil || u == nil {
		return ""
	}
	return u.Username
}

// opponentName labels the other seat: the computer in single-player,
// otherwise whoever sits there, empty while the seat is open.
func (s *GameService) opponentName(ctx context.Context, g *model.Game, opp battleship.Seat) string {
	if g.Mode == battleship.SinglePlayer && opp == battleship.Player2 {
		return "computer"
	}
	return s.username(ctx, g.UserAt(opp))
}
