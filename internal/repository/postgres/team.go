package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thoughtminds/mindmesh/internal/domain"
	"github.com/thoughtminds/mindmesh/internal/repository"
)

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create сохраняет команду вместе с участниками в одной транзакции
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback после успешного Commit это no-op
	defer tx.Rollback(ctx)

	teamQuery := `
		INSERT INTO teams (id, team_name, idea_description, impact_description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err = tx.QueryRow(ctx, teamQuery,
		team.ID,
		team.TeamName,
		team.IdeaDescription,
		team.ImpactDescription,
		team.Status,
	).Scan(&team.CreatedAt)
	if err != nil {
		// Проверяем нарушение уникальности имени команды
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return domain.ErrTeamExists
		}
		return err
	}

	memberQuery := `
		INSERT INTO team_members (team_id, position, name, tms_id, email, is_team_lead)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i, member := range team.Members {
		if _, err := tx.Exec(ctx, memberQuery,
			team.ID, i, member.Name, member.TMSID, member.Email, member.IsTeamLead,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID получает команду со всеми участниками
func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	query := `
		SELECT id, team_name, idea_description, impact_description, status, admin_remarks, created_at
		FROM teams
		WHERE id = $1
	`

	var team domain.Team
	err := r.db.QueryRow(ctx, query, teamID).Scan(
		&team.ID,
		&team.TeamName,
		&team.IdeaDescription,
		&team.ImpactDescription,
		&team.Status,
		&team.AdminRemarks,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	members, err := r.loadMembers(ctx, []string{team.ID})
	if err != nil {
		return nil, err
	}
	team.Members = members[team.ID]

	return &team, nil
}

// List возвращает страницу команд и общее количество с учетом поиска
func (r *TeamRepository) List(ctx context.Context, params repository.ListParams) ([]*domain.Team, int, error) {
	// Поиск: регистронезависимое вхождение в имя, идею или impact-описание
	where := ""
	args := []any{}
	if params.Search != "" {
		where = `
		WHERE team_name ILIKE '%' || $1 || '%'
		   OR idea_description ILIKE '%' || $1 || '%'
		   OR impact_description ILIKE '%' || $1 || '%'`
		args = append(args, params.Search)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM teams` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.PageSize
	listQuery := fmt.Sprintf(`
		SELECT id, team_name, idea_description, impact_description, status, admin_remarks, created_at
		FROM teams%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var teams []*domain.Team
	var ids []string
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(
			&team.ID,
			&team.TeamName,
			&team.IdeaDescription,
			&team.ImpactDescription,
			&team.Status,
			&team.AdminRemarks,
			&team.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		teams = append(teams, &team)
		ids = append(ids, team.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		members, err := r.loadMembers(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for _, team := range teams {
			team.Members = members[team.ID]
		}
	}

	return teams, total, nil
}

// loadMembers загружает участников для набора команд, сохраняя порядок состава
func (r *TeamRepository) loadMembers(ctx context.Context, teamIDs []string) (map[string][]domain.TeamMember, error) {
	query := `
		SELECT team_id, name, tms_id, email, is_team_lead
		FROM team_members
		WHERE team_id = ANY($1)
		ORDER BY team_id, position
	`

	rows, err := r.db.Query(ctx, query, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make(map[string][]domain.TeamMember)
	for rows.Next() {
		var teamID string
		var member domain.TeamMember
		if err := rows.Scan(&teamID, &member.Name, &member.TMSID, &member.Email, &member.IsTeamLead); err != nil {
			return nil, err
		}
		members[teamID] = append(members[teamID], member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

// SetStatus переводит команду из Pending в терминальный статус.
// Guarded UPDATE: условие status = 'Pending' закрывает гонку двух администраторов —
// второй получает ErrAlreadyModerated вместо молчаливой перезаписи.
func (r *TeamRepository) SetStatus(ctx context.Context, teamID string, status domain.TeamStatus, remarks *string) error {
	query := `
		UPDATE teams
		SET status = $2, admin_remarks = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'Pending'
	`

	tag, err := r.db.Exec(ctx, query, teamID, status, remarks)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Либо команды нет, либо статус уже терминальный
		exists, err := r.exists(ctx, teamID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrTeamNotFound
		}
		return domain.ErrAlreadyModerated
	}

	return nil
}

// Delete удаляет команду; участники удаляются каскадно
func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

// Stats возвращает счетчики команд по статусам
func (r *TeamRepository) Stats(ctx context.Context) (*repository.TeamStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN status = 'Pending' THEN 1 END) AS pending,
			COUNT(CASE WHEN status = 'Approved' THEN 1 END) AS approved,
			COUNT(CASE WHEN status = 'Rejected' THEN 1 END) AS rejected
		FROM teams
	`

	var stats repository.TeamStats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Approved,
		&stats.Rejected,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// exists проверяет существование команды
func (r *TeamRepository) exists(ctx context.Context, teamID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`, teamID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
