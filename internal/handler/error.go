package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/arkavidia/competition-gateway/internal/domain"
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

// HandleError преобразует ошибки в HTTP ответы.
// Код берётся из domain.MapErrorToCode, для ошибок шлюза сообщение - detail сервиса.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.MapErrorToCode(err)

	var (
		loginErr *domain.APIError[domain.LoginStatus]
		regErr   *domain.APIError[domain.RegistrationStatus]
		emailErr *domain.APIError[domain.EmailOperationStatus]
		flagErr  *domain.APIError[bool]
		decErr   *domain.DecodeError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		RespondWithError(w, r, http.StatusBadRequest, string(code), invalidInputMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		RespondWithError(w, r, http.StatusUnauthorized, string(code), "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		RespondWithError(w, r, http.StatusNotFound, string(code), "resource not found")
	case errors.As(err, &loginErr):
		RespondWithError(w, r, loginStatus(loginErr.Status), string(code), loginErr.Detail)
	case errors.As(err, &regErr):
		RespondWithError(w, r, registrationStatus(regErr.Status), string(code), regErr.Detail)
	case errors.As(err, &emailErr):
		RespondWithError(w, r, emailOperationStatus(emailErr.Status), string(code), emailErr.Detail)
	case errors.As(err, &flagErr):
		RespondWithError(w, r, http.StatusBadGateway, string(code), flagErr.Detail)
	case errors.As(err, &decErr):
		RespondWithError(w, r, http.StatusBadGateway, string(code), "unexpected response from upstream service")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, string(code), "internal server error")
	}
}

func invalidInputMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return "invalid request"
	}
	return msg
}

func loginStatus(s domain.LoginStatus) int {
	switch s {
	case domain.LoginInvalidCreds:
		return http.StatusUnauthorized
	case domain.LoginEmailNotConfirmed:
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

func registrationStatus(s domain.RegistrationStatus) int {
	if s == domain.RegistrationEmailExists {
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func emailOperationStatus(s domain.EmailOperationStatus) int {
	if s == domain.EmailOperationInvalidToken {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
