package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/arkavidia/competition-gateway/internal/domain"
	"github.com/arkavidia/competition-gateway/internal/middleware"
	"github.com/arkavidia/competition-gateway/internal/session"
)

var validate = validator.New()

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// decodeRequest читает JSON тело запроса и проверяет теги validate
func decodeRequest(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// idParam извлекает числовой параметр пути
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, name)
	}
	return id, nil
}

// workspace возвращает рабочее пространство, которое положил AuthMiddleware
func workspace(w http.ResponseWriter, r *http.Request) (*session.Workspace, bool) {
	ws, ok := middleware.GetWorkspaceFromContext(r.Context())
	if !ok {
		HandleError(w, r, domain.ErrUnauthorized)
		return nil, false
	}
	return ws, true
}
