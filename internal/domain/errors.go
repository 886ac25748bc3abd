package domain

import "errors"

// Доменные ошибки платформы
var (
	// ErrTeamExists возвращается при попытке зарегистрировать команду с занятым именем
	ErrTeamExists = errors.New("team already exists")

	// ErrTeamNotFound возвращается когда команда не найдена
	ErrTeamNotFound = errors.New("team not found")

	// ErrAlreadyModerated возвращается при повторной модерации команды:
	// статус выставляется ровно один раз, переход Pending -> терминальный
	ErrAlreadyModerated = errors.New("team already moderated")

	// ErrRemarksRequired возвращается при отклонении команды без замечаний
	ErrRemarksRequired = errors.New("rejection requires non-empty remarks")

	// ErrRemarksNotAllowed возвращается когда замечания переданы при одобрении
	ErrRemarksNotAllowed = errors.New("approval must not carry remarks")

	// ErrInvalidStatus возвращается при запросе перехода в неизвестный или нетерминальный статус
	ErrInvalidStatus = errors.New("invalid target status")

	// ErrInvalidMembers возвращается при нарушении инвариантов состава:
	// 1-4 участника, ровно один лидер и он первый в списке
	ErrInvalidMembers = errors.New("invalid team members")

	// ErrUnauthorized возвращается при неудачной аутентификации администратора
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeTeamExists       ErrorCode = "TEAM_EXISTS"       // Имя команды уже занято
	CodeNotFound         ErrorCode = "NOT_FOUND"         // Ресурс не найден
	CodeAlreadyModerated ErrorCode = "ALREADY_MODERATED" // Команда уже одобрена или отклонена
	CodeRemarksRequired  ErrorCode = "REMARKS_REQUIRED"  // Отклонение без замечаний
	CodeBadRequest       ErrorCode = "BAD_REQUEST"       // Невалидный запрос
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"      // Нет прав администратора
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrTeamExists):
		return CodeTeamExists
	case errors.Is(err, ErrAlreadyModerated):
		return CodeAlreadyModerated
	case errors.Is(err, ErrRemarksRequired):
		return CodeRemarksRequired
	case errors.Is(err, ErrRemarksNotAllowed), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidMembers):
		return CodeBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	default:
		return CodeNotFound
	}
}
