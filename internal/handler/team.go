package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/thoughtminds/mindmesh/internal/domain"
	"github.com/thoughtminds/mindmesh/internal/repository"
	"github.com/thoughtminds/mindmesh/internal/service"
)

// TeamHandler обрабатывает публичные эндпоинты команд
type TeamHandler struct {
	teamService *service.TeamService
	validate    *validator.Validate
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService, validate *validator.Validate) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		validate:    validate,
	}
}

// CreateTeamRequest представляет тело запроса регистрации команды
type CreateTeamRequest struct {
	TeamName          string              `json:"team_name" validate:"required,max=255"`
	IdeaDescription   string              `json:"idea_description" validate:"required,min=10,max=500"`
	ImpactDescription string              `json:"impact_description" validate:"required,min=10,max=500"`
	Members           []domain.TeamMember `json:"members" validate:"required,min=1,max=4,dive"`
}

// CreateTeam обрабатывает POST /api/v1/teams
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	team := &domain.Team{
		TeamName:          req.TeamName,
		IdeaDescription:   req.IdeaDescription,
		ImpactDescription: req.ImpactDescription,
		Members:           req.Members,
	}

	created, err := h.teamService.Register(r.Context(), team)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, created)
}

// ListTeams обрабатывает GET /api/v1/teams?page=...&page_size=...&search=...
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	params := repository.ListParams{
		Page:     1,
		PageSize: 9,
		Search:   r.URL.Query().Get("search"),
	}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "page must be a positive integer")
			return
		}
		params.Page = page
	}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil || pageSize < 1 {
			RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "page_size must be a positive integer")
			return
		}
		params.PageSize = pageSize
	}

	list, err := h.teamService.List(r.Context(), params)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, list)
}

// Stats обрабатывает GET /api/v1/teams/stats
func (h *TeamHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.teamService.Stats(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}
