package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/thoughtminds/mindmesh/internal/domain"
	"github.com/thoughtminds/mindmesh/pkg/client"
)

// Step представляет шаг мастера регистрации
type Step int

// Шаги мастера: переходы строго линейные, вперед — только через валидацию
const (
	StepTeamProfile Step = 1 // Профиль команды и лидер
	StepMembers     Step = 2 // Дополнительные участники
	StepPitch       Step = 3 // Описание проекта и согласие с правилами
)

// Максимум дополнительных участников помимо лидера
const MaxExtraMembers = 3

// ErrNotReady возвращается при попытке отправить форму не с последнего шага
// или с невалидными данными
var ErrNotReady = errors.New("draft is not ready for submission")

// MemberEntry представляет черновик дополнительного участника
type MemberEntry struct {
	Name  string `validate:"required,max=255"`
	Email string `validate:"required,email"`
	TMSID string `validate:"required,max=64"`
}

// Draft это состояние формы регистрации. Живет только в памяти:
// создается при открытии формы, уничтожается после успешной отправки.
type Draft struct {
	TeamName        string        `validate:"required,max=255"`
	LeaderName      string        `validate:"required,max=255"`
	LeaderEmail     string        `validate:"required,email"`
	LeaderID        string        `validate:"required,max=64"`
	Members         []MemberEntry `validate:"max=3,dive"`
	ProjectIdea     string        `validate:"required,min=10,max=500"`
	ImpactStatement string        `validate:"required,min=10,max=500"`
	AgreedToRules   bool          `validate:"eq=true"`
}

// Поля черновика по шагам (для частичной валидации)
var stepFields = map[Step][]string{
	StepTeamProfile: {"TeamName", "LeaderName", "LeaderEmail", "LeaderID"},
	StepMembers:     {"Members"},
	StepPitch:       {"ProjectIdea", "ImpactStatement", "AgreedToRules"},
}

// Wizard это контроллер трехшаговой формы регистрации команды
type Wizard struct {
	api         *client.Client
	validate    *validator.Validate
	step        Step
	draft       Draft
	fieldErrors map[string]string
}

// NewWizard создает мастер регистрации на первом шаге с пустым черновиком
func NewWizard(api *client.Client) *Wizard {
	return &Wizard{
		api:         api,
		validate:    validator.New(),
		step:        StepTeamProfile,
		fieldErrors: map[string]string{},
	}
}

// Step возвращает текущий шаг
func (w *Wizard) Step() Step {
	return w.step
}

// Draft возвращает черновик для привязки полей формы
func (w *Wizard) Draft() *Draft {
	return &w.draft
}

// FieldErrors возвращает ошибки полей после последней валидации
func (w *Wizard) FieldErrors() map[string]string {
	return w.fieldErrors
}

// AddMember добавляет пустую строку дополнительного участника
func (w *Wizard) AddMember() error {
	if len(w.draft.Members) >= MaxExtraMembers {
		return fmt.Errorf("at most %d additional members", MaxExtraMembers)
	}
	w.draft.Members = append(w.draft.Members, MemberEntry{})
	return nil
}

// RemoveMember удаляет строку участника по индексу
func (w *Wizard) RemoveMember(index int) {
	if index < 0 || index >= len(w.draft.Members) {
		return
	}
	w.draft.Members = append(w.draft.Members[:index], w.draft.Members[index+1:]...)
}

// Advance валидирует только поля текущего шага. При успехе переходит
// на следующий шаг (не дальше третьего) и возвращает true. При ошибке
// шаг не меняется, ошибки полей доступны через FieldErrors.
func (w *Wizard) Advance() bool {
	if !w.validateStep(w.step) {
		return false
	}
	if w.step < StepPitch {
		w.step++
	}
	return true
}

// Retreat возвращает на предыдущий шаг без валидации
func (w *Wizard) Retreat() {
	if w.step > StepTeamProfile {
		w.step--
	}
}

// Submit отправляет заявку. Доступен только с третьего шага при полностью
// валидном черновике. Лидер всегда первый в составе с is_team_lead=true.
// При успехе черновик уничтожается и мастер сбрасывается на первый шаг;
// при ошибке сети черновик сохраняется для повторной отправки.
func (w *Wizard) Submit(ctx context.Context) (*domain.Team, error) {
	if w.step != StepPitch {
		return nil, ErrNotReady
	}
	if err := w.validate.Struct(&w.draft); err != nil {
		w.fieldErrors = fieldErrorMap(err)
		return nil, ErrNotReady
	}

	members := make([]domain.TeamMember, 0, 1+len(w.draft.Members))
	members = append(members, domain.TeamMember{
		Name:       w.draft.LeaderName,
		TMSID:      w.draft.LeaderID,
		Email:      w.draft.LeaderEmail,
		IsTeamLead: true,
	})
	for _, m := range w.draft.Members {
		members = append(members, domain.TeamMember{
			Name:       m.Name,
			TMSID:      m.TMSID,
			Email:      m.Email,
			IsTeamLead: false,
		})
	}

	team, err := w.api.CreateTeam(ctx, &client.CreateTeamRequest{
		TeamName:          w.draft.TeamName,
		IdeaDescription:   w.draft.ProjectIdea,
		ImpactDescription: w.draft.ImpactStatement,
		Members:           members,
	})
	if err != nil {
		// Черновик не трогаем: пользователь повторит отправку без перенабора
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	w.draft = Draft{}
	w.step = StepTeamProfile
	w.fieldErrors = map[string]string{}
	return team, nil
}

// validateStep проверяет поля одного шага и заполняет ошибки полей
func (w *Wizard) validateStep(step Step) bool {
	err := w.validate.StructPartial(&w.draft, stepFields[step]...)
	if err == nil {
		w.fieldErrors = map[string]string{}
		return true
	}
	w.fieldErrors = fieldErrorMap(err)
	return false
}

// fieldErrorMap превращает ошибки валидатора в сообщения по полям
func fieldErrorMap(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = err.Error()
		return out
	}

	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "email":
			msg = "invalid email"
		case "min":
			msg = "too short (min " + fe.Param() + " characters)"
		case "max":
			msg = "too long (max " + fe.Param() + ")"
		case "eq":
			msg = "you must agree to the rules"
		default:
			msg = "invalid value"
		}
		out[fe.StructNamespace()] = msg
	}
	return out
}
