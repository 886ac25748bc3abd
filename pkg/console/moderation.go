package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thoughtminds/mindmesh/internal/domain"
	"github.com/thoughtminds/mindmesh/pkg/client"
)

// ErrNotAdmin возвращается при попытке модерации без административной сессии.
// Сервер проверяет права независимо; эта проверка лишь скрывает действия в UI.
var ErrNotAdmin = errors.New("admin session required")

// Moderation это контроллер административной модерации команд.
// Каждое успешное действие завершается полной перезагрузкой каталога:
// UI показывает состояние после перечитывания, без оптимистичных правок.
type Moderation struct {
	api       *client.Client
	directory *Directory
}

// NewModeration создает контроллер модерации поверх каталога
func NewModeration(api *client.Client, directory *Directory) *Moderation {
	return &Moderation{
		api:       api,
		directory: directory,
	}
}

// Approve одобряет команду. Одобрение никогда не несет замечаний.
func (m *Moderation) Approve(ctx context.Context, teamID string) error {
	if !m.api.Session().IsAdmin() {
		return ErrNotAdmin
	}

	if _, err := m.api.UpdateStatus(ctx, teamID, domain.StatusApproved, ""); err != nil {
		return fmt.Errorf("approve failed: %w", err)
	}

	m.directory.Deselect()
	m.directory.Load(ctx)
	return nil
}

// Reject отклоняет команду. Пустые замечания отбрасываются локально —
// до сетевого вызова дело не доходит.
func (m *Moderation) Reject(ctx context.Context, teamID, remarks string) error {
	if !m.api.Session().IsAdmin() {
		return ErrNotAdmin
	}
	if strings.TrimSpace(remarks) == "" {
		return domain.ErrRemarksRequired
	}

	if _, err := m.api.UpdateStatus(ctx, teamID, domain.StatusRejected, remarks); err != nil {
		return fmt.Errorf("reject failed: %w", err)
	}

	m.directory.Deselect()
	m.directory.Load(ctx)
	return nil
}

// Delete удаляет команду безвозвратно
func (m *Moderation) Delete(ctx context.Context, teamID string) error {
	if !m.api.Session().IsAdmin() {
		return ErrNotAdmin
	}

	if err := m.api.DeleteTeam(ctx, teamID); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	m.directory.Deselect()
	m.directory.Load(ctx)
	return nil
}
