package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/thoughtminds/mindmesh/internal/domain"
	"github.com/thoughtminds/mindmesh/internal/repository"
)

// TeamList представляет страницу каталога команд
type TeamList struct {
	Teams      []*domain.Team `json:"teams"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// Максимальный размер страницы: каталог забирает команды одной ограниченной пачкой
const MaxPageSize = 200

// TeamService handles business logic for teams
type TeamService struct {
	teamRepo repository.TeamRepository
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo repository.TeamRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
	}
}

// Register создает новую команду. Инварианты состава: от 1 до 4 участников,
// ровно один лидер и он первый в списке. Статус всегда Pending, замечаний нет.
func (s *TeamService) Register(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	if len(team.Members) < domain.MinTeamMembers || len(team.Members) > domain.MaxTeamMembers {
		return nil, domain.ErrInvalidMembers
	}
	for i, member := range team.Members {
		if member.IsTeamLead != (i == 0) {
			return nil, domain.ErrInvalidMembers
		}
	}

	team.ID = uuid.NewString()
	team.Status = domain.StatusPending
	team.AdminRemarks = nil

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	return s.teamRepo.GetByID(ctx, team.ID)
}

// List возвращает страницу каталога с общим количеством и числом страниц
func (s *TeamService) List(ctx context.Context, params repository.ListParams) (*TeamList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > MaxPageSize {
		params.PageSize = MaxPageSize
	}

	teams, total, err := s.teamRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize

	return &TeamList{
		Teams:      teams,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Moderate переводит команду в терминальный статус.
// Отклонение требует непустых замечаний, одобрение их запрещает.
func (s *TeamService) Moderate(ctx context.Context, teamID string, status domain.TeamStatus, remarks string) (*domain.Team, error) {
	if !status.Valid() || !status.IsTerminal() {
		return nil, domain.ErrInvalidStatus
	}

	remarks = strings.TrimSpace(remarks)
	var stored *string
	switch status {
	case domain.StatusRejected:
		if remarks == "" {
			return nil, domain.ErrRemarksRequired
		}
		stored = &remarks
	case domain.StatusApproved:
		if remarks != "" {
			return nil, domain.ErrRemarksNotAllowed
		}
	}

	if err := s.teamRepo.SetStatus(ctx, teamID, status, stored); err != nil {
		return nil, err
	}

	return s.teamRepo.GetByID(ctx, teamID)
}

// Delete удаляет команду безвозвратно
func (s *TeamService) Delete(ctx context.Context, teamID string) error {
	return s.teamRepo.Delete(ctx, teamID)
}

// Stats возвращает счетчики каталога по статусам
func (s *TeamService) Stats(ctx context.Context) (*repository.TeamStats, error) {
	return s.teamRepo.Stats(ctx)
}
