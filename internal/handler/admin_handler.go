package handler

import (
	"errors"
	"net/http"

	"github.com/freeeve/broadside/api/internal/service"
	"github.com/freeeve/broadside/api/pkg/battleship"
)

// AdminHandler handles the catalog CRUD endpoints. Routing puts them
// behind the admin role.
type AdminHandler struct {
	catalog *service.CatalogService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(catalog *service.CatalogService) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

// catalogStatus maps catalog service errors onto HTTP statuses.
func catalogStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound) || errors.Is(err, service.ErrFleetNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidName) || errors.Is(err, service.ErrInvalidShipSize) || errors.Is(err, battleship.ErrInvalidFleet):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// templateRequest is the create/update payload for ship templates.
type templateRequest struct {
	Name        string `json:"name"`
	Size        int    `json:"size"`
	Description string `json:"description,omitempty"`
}

// CreateTemplate handles POST /admin/ship-templates
func (h *AdminHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tpl, err := h.catalog.CreateTemplate(r.Context(), req.Name, req.Size, req.Description)
	if err != nil {
		writeError(w, catalogStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

// ListTemplates handles GET /admin/ship-templates
func (h *AdminHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.catalog.ListTemplates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// GetTemplate handles GET /admin/ship-templates/{id}
func (h *AdminHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.catalog.GetTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, catalogStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// UpdateTemplate handles PUT /admin/ship-templates/{id}
func (h *AdminHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tpl, err := h.catalog.UpdateTemplate(r.Context(), r.PathValue("id"), req.Name, req.Size, req.Description)
	if err != nil {
		writeError(w, catalogStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// DeleteTemplate handles DELETE /admin/ship-templates/{id}
func (h *AdminHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteTemplate(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, catalogStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// fleetRequest is the create/update payload for base fleets.
type fleetRequest struct {
	Name            string   `json:"name"`
	BoardSize       int      `json:"board_size"`
	ShipTemplateIDs []string `json:"ship_template_ids"`
}

// CreateFleet handles POST /admin/base-fleets
func (h *AdminHandler) CreateFleet(w http.ResponseWriter, r *http.Request) {
	var req fleetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fleet, err := h.catalog.CreateFleet(r.Context(), req.Name, req.BoardSize, req.ShipTemplateIDs)
	if err != nil {
		status := catalogStatus(err)
		// A fleet naming a missing template is a bad request, not a
		// missing fleet.
		if errors.Is(err, service.ErrTemplateNotFound) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, fleet)
}

// ListFleets handles GET /admin/base-fleets
func (h *AdminHandler) ListFleets(w http.ResponseWriter, r *http.Request) {
	fleets, err := h.catalog.ListFleets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fleets)
}

// GetFleet handles GET /admin/base-fleets/{id}
func (h *AdminHandler) GetFleet(w http.ResponseWriter, r *http.Request) {
	fleet, err := h.catalog.GetFleet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, catalogStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fleet)
}

// UpdateFleet handles PUT /admin/base-fleets/{id}
func (h *AdminHandler) UpdateFleet(w http.ResponseWriter, r *http.Request) {
	var req fleetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fleet, err := h.catalog.UpdateFleet(r.Context(), r.PathValue("id"), req.Name, req.BoardSize, req.ShipTemplateIDs)
	if err != nil {
		status := catalogStatus(err)
		if errors.Is(err, service.ErrTemplateNotFound) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fleet)
}

// DeleteFleet handles DELETE /admin/base-fleets/{id}
func (h *AdminHandler) DeleteFleet(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteFleet(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, catalogStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
