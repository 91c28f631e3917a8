package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/freeeve/broadside/api/internal/auth"
	"github.com/freeeve/broadside/api/internal/service"
)

// PlayerHandler handles the player-facing listing endpoints.
type PlayerHandler struct {
	games   *service.GameService
	catalog *service.CatalogService
}

// NewPlayerHandler creates a PlayerHandler.
func NewPlayerHandler(games *service.GameService, catalog *service.CatalogService) *PlayerHandler {
	return &PlayerHandler{games: games, catalog: catalog}
}

// AvailableGames handles GET /player/available-games
func (h *PlayerHandler) AvailableGames(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	list, err := h.games.AvailableGames(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// MyGames handles GET /player/my-games
func (h *PlayerHandler) MyGames(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	games, err := h.games.MyGames(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// ListFleets handles GET /player/fleets
func (h *PlayerHandler) ListFleets(w http.ResponseWriter, r *http.Request) {
	fleets, err := h.catalog.ListFleets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fleets)
}

// GetFleet handles GET /player/fleets/{id}
func (h *PlayerHandler) GetFleet(w http.ResponseWriter, r *http.Request) {
	fleet, err := h.catalog.GetFleet(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrFleetNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fleet)
}
