package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/thoughtminds/mindmesh/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrTeamExists):
		RespondWithError(w, r, http.StatusConflict, string(domain.CodeTeamExists), "team already exists")
	case errors.Is(err, domain.ErrAlreadyModerated):
		RespondWithError(w, r, http.StatusConflict, string(domain.CodeAlreadyModerated), "team already moderated")
	case errors.Is(err, domain.ErrRemarksRequired):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeRemarksRequired), "rejection requires non-empty remarks")
	case errors.Is(err, domain.ErrRemarksNotAllowed):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "approval must not carry remarks")
	case errors.Is(err, domain.ErrInvalidStatus):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "status must be Approved or Rejected")
	case errors.Is(err, domain.ErrInvalidMembers):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "team must have 1-4 members with the lead first")
	case errors.Is(err, domain.ErrTeamNotFound):
		RespondWithError(w, r, http.StatusNotFound, string(domain.CodeNotFound), "team not found")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		RespondWithError(w, r, http.StatusUnauthorized, string(domain.CodeUnauthorized), "unauthorized")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
