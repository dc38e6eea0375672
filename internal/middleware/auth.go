package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/arkavidia/competition-gateway/internal/domain"
	"github.com/arkavidia/competition-gateway/internal/gateway"
	"github.com/arkavidia/competition-gateway/internal/session"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

const (
	// TokenKey ключ контекста для bearer токена
	TokenKey ContextKey = "token"
	// WorkspaceKey ключ контекста для рабочего пространства сессии
	WorkspaceKey ContextKey = "workspace"
)

// AuthMiddleware создает middleware, которое по bearer токену находит рабочее пространство.
// Неизвестный токен проверяется через сервис и восстанавливает пространство.
// 401 отдается только если токен отвергнут; прочие сбои восстановления уходят в onError.
func AuthMiddleware(registry *session.Registry, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				unauthorized(w, "invalid authorization header format")
				return
			}

			token := parts[1]

			ws, err := registry.Restore(r.Context(), token)
			if err != nil {
				if isRejected(err) {
					unauthorized(w, "invalid or expired token")
					return
				}
				onError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), TokenKey, token)
			ctx = context.WithValue(ctx, WorkspaceKey, ws)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isRejected сообщает, что токен невалиден, а не что сервис недоступен
func isRejected(err error) bool {
	if errors.Is(err, domain.ErrUnauthorized) {
		return true
	}
	var respErr *gateway.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusUnauthorized || respErr.StatusCode == http.StatusForbidden
	}
	return false
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}

// GetTokenFromContext извлекает bearer токен из контекста
func GetTokenFromContext(ctx context.Context) string {
	token, ok := ctx.Value(TokenKey).(string)
	if !ok {
		return ""
	}
	return token
}

// GetWorkspaceFromContext извлекает рабочее пространство из контекста
func GetWorkspaceFromContext(ctx context.Context) (*session.Workspace, bool) {
	ws, ok := ctx.Value(WorkspaceKey).(*session.Workspace)
	return ws, ok && ws != nil
}
