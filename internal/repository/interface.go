package repository

import (
	"context"

	"github.com/thoughtminds/mindmesh/internal/domain"
)

// ListParams задает параметры выборки команд
type ListParams struct {
	Page     int    // Номер страницы, начиная с 1
	PageSize int    // Размер страницы
	Search   string // Подстрока для поиска (пустая строка — без фильтра)
}

// TeamStats содержит агрегированные счетчики по командам
type TeamStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// TeamRepository определяет методы для работы с данными команд
type TeamRepository interface {
	// Create сохраняет команду вместе с участниками в одной транзакции
	Create(ctx context.Context, team *domain.Team) error

	// GetByID получает команду со всеми участниками
	GetByID(ctx context.Context, teamID string) (*domain.Team, error)

	// List возвращает страницу команд и общее количество с учетом поиска
	List(ctx context.Context, params ListParams) ([]*domain.Team, int, error)

	// SetStatus переводит команду из Pending в терминальный статус.
	// Возвращает ErrAlreadyModerated если команда уже промодерирована.
	SetStatus(ctx context.Context, teamID string, status domain.TeamStatus, remarks *string) error

	// Delete удаляет команду вместе с участниками
	Delete(ctx context.Context, teamID string) error

	// Stats возвращает счетчики команд по статусам
	Stats(ctx context.Context) (*TeamStats, error)
}
