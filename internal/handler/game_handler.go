package handler

import (
	"errors"
	"net/http"

	"github.com/freeeve/broadside/api/internal/auth"
	"github.com/freeeve/broadside/api/internal/service"
	"github.com/freeeve/broadside/api/pkg/battleship"
)

// GameHandler handles the game lifecycle endpoints.
type GameHandler struct {
	games *service.GameService
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(games *service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

// rulesViolation reports whether the error is a rules or validation
// failure the caller can correct, as opposed to a missing game or an
// authorization problem.
func rulesViolation(err error) bool {
	for _, target := range []error{
		battleship.ErrWrongPhase,
		battleship.ErrNotYourTurn,
		battleship.ErrAlreadyShot,
		battleship.ErrOverlap,
		battleship.ErrOutOfBounds,
		battleship.ErrMalformedCoordinate,
		battleship.ErrShipMismatch,
		battleship.ErrInvalidOrientation,
		battleship.ErrInvalidFleet,
		battleship.ErrGameFull,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// CreateGame handles POST /game
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var req struct {
		BaseFleetID string `json:"base_fleet_id"`
		Mode        string `json:"mode,omitempty"`
		Difficulty  string `json:"difficulty,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BaseFleetID == "" {
		writeError(w, http.StatusBadRequest, "base_fleet_id is required")
		return
	}

	game, err := h.games.CreateGame(r.Context(), userID, req.BaseFleetID, req.Mode, req.Difficulty)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrFleetNotFound) || errors.Is(err, service.ErrTemplateNotFound) ||
			errors.Is(err, service.ErrInvalidMode) || errors.Is(err, service.ErrInvalidDifficulty) ||
			errors.Is(err, battleship.ErrInvalidFleet) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

// GetGame handles GET /game/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	game, err := h.games.Game(r.Context(), gameID, userID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// JoinGame handles POST /game/{id}/join
func (h *GameHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	game, err := h.games.JoinGame(r.Context(), gameID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrCannotJoinOwn) || errors.Is(err, service.ErrAlreadyJoined) || rulesViolation(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// PlaceShip handles POST /game/{id}/place-ship
func (h *GameHandler) PlaceShip(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		ShipTemplateID  string `json:"ship_template_id"`
		PlacementIndex  *int   `json:"placement_index,omitempty"`
		StartCoordinate string `json:"start_coordinate"`
		Orientation     string `json:"orientation"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	index := -1
	if req.PlacementIndex != nil {
		index = *req.PlacementIndex
	}

	result, err := h.games.PlaceShip(r.Context(), gameID, userID, req.ShipTemplateID, index, req.StartCoordinate, req.Orientation)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotParticipant) {
			status = http.StatusForbidden
		} else if rulesViolation(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Shoot handles POST /game/{id}/shoot
func (h *GameHandler) Shoot(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		Coordinate string `json:"coordinate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.games.Shoot(r.Context(), gameID, userID, req.Coordinate)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotParticipant) {
			status = http.StatusForbidden
		} else if rulesViolation(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// GetBoard handles GET /game/{id}/board
func (h *GameHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	view, err := h.games.Board(r.Context(), gameID, userID)
	if err != nil {
		writeGameReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetStats handles GET /game/{id}/stats
func (h *GameHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	stats, err := h.games.Stats(r.Context(), gameID, userID)
	if err != nil {
		writeGameReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetShots handles GET /game/{id}/shots
func (h *GameHandler) GetShots(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	history, err := h.games.ShotHistory(r.Context(), gameID, userID)
	if err != nil {
		writeGameReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// DeleteGame handles DELETE /game/{id}
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.games.DeleteGame(r.Context(), gameID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotParticipant) || errors.Is(err, service.ErrNotCreator) {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// writeGameReadError maps the errors the read-only game endpoints share.
func writeGameReadError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, service.ErrGameNotFound) {
		status = http.StatusNotFound
	} else if errors.Is(err, service.ErrNotParticipant) {
		status = http.StatusForbidden
	}
	writeError(w, status, err.Error())
}
