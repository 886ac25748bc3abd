package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thoughtminds/mindmesh/internal/domain"
	"github.com/thoughtminds/mindmesh/internal/service"
)

// AdminHandler обрабатывает административные эндпоинты модерации
type AdminHandler struct {
	teamService *service.TeamService
}

// NewAdminHandler создает новый AdminHandler
func NewAdminHandler(teamService *service.TeamService) *AdminHandler {
	return &AdminHandler{
		teamService: teamService,
	}
}

// UpdateStatusRequest представляет тело запроса модерации команды
type UpdateStatusRequest struct {
	Status  domain.TeamStatus `json:"status"`
	Remarks string            `json:"remarks,omitempty"`
}

// UpdateStatus обрабатывает POST /api/v1/admin/teams/{id}/status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	team, err := h.teamService.Moderate(r.Context(), teamID, req.Status, req.Remarks)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}

// DeleteTeam обрабатывает DELETE /api/v1/admin/teams/{id}
func (h *AdminHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")

	if err := h.teamService.Delete(r.Context(), teamID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
