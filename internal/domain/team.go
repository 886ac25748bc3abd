package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TeamStatus представляет статус модерации команды
type TeamStatus string

// Возможные статусы команды
const (
	StatusPending  TeamStatus = "Pending"  // Команда ожидает решения администратора
	StatusApproved TeamStatus = "Approved" // Команда одобрена (терминальный статус)
	StatusRejected TeamStatus = "Rejected" // Команда отклонена (терминальный статус)
)

// IsTerminal возвращает true если статус больше не может измениться
func (s TeamStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid проверяет что статус является одним из известных значений
func (s TeamStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// UnmarshalJSON нормализует статус на границе данных.
// Апстрим не гарантирует единый формат: статус приходит либо строкой
// ("Approved"), либо объектом с единственным ключом ({"Approved": {}}).
// Отсутствующее, null или пустое значение трактуется как Pending.
func (s *TeamStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str == "" {
			*s = StatusPending
			return nil
		}
		*s = TeamStatus(str)
		return nil
	}

	var variant map[string]json.RawMessage
	if err := json.Unmarshal(data, &variant); err != nil {
		return fmt.Errorf("invalid team status %s", data)
	}
	if len(variant) == 0 {
		*s = StatusPending
		return nil
	}
	if len(variant) > 1 {
		return fmt.Errorf("ambiguous team status %s", data)
	}
	for key := range variant {
		*s = TeamStatus(key)
	}
	return nil
}

// TeamMember представляет участника команды
type TeamMember struct {
	Name       string `json:"name" validate:"required,max=255"`
	TMSID      string `json:"tms_id" validate:"required,max=64"`
	Email      string `json:"email" validate:"required,email"`
	IsTeamLead bool   `json:"is_team_lead"`
}

// Ограничения на состав команды
const (
	MinTeamMembers = 1
	MaxTeamMembers = 4
)

// Team представляет зарегистрированную команду хакатона
type Team struct {
	ID                string       `json:"id"`
	TeamName          string       `json:"team_name"`
	IdeaDescription   string       `json:"idea_description"`
	ImpactDescription string       `json:"impact_description"`
	Members           []TeamMember `json:"members"`
	Status            TeamStatus   `json:"status"`
	AdminRemarks      *string      `json:"admin_remarks,omitempty"`
	CreatedAt         *time.Time   `json:"created_at,omitempty"`
}

// Lead возвращает лидера команды (по инварианту — первый участник)
func (t *Team) Lead() *TeamMember {
	if len(t.Members) == 0 {
		return nil
	}
	return &t.Members[0]
}
