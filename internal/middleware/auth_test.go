package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkavidia/competition-gateway/internal/domain"
	"github.com/arkavidia/competition-gateway/internal/gateway"
	"github.com/arkavidia/competition-gateway/internal/gateway/fakeapi"
	"github.com/arkavidia/competition-gateway/internal/session"
)

func TestAuthMiddleware(t *testing.T) {
	fake := fakeapi.New("test-secret")
	fake.AddUser(domain.User{Email: "a@b.com", FullName: "A B"}, "pw", true)
	upstream := httptest.NewServer(fake)
	defer upstream.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := session.NewRegistry(gateway.NewClient(upstream.URL, upstream.Client(), logger), time.Hour, logger)

	var seen *session.Workspace
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		t.Errorf("unexpected restore error: %v", err)
		w.WriteHeader(http.StatusBadGateway)
	}
	handler := AuthMiddleware(registry, onError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, ok := GetWorkspaceFromContext(r.Context())
		require.True(t, ok)
		seen = ws
		assert.NotEmpty(t, GetTokenFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	token, _, err := fake.IssueToken("a@b.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantBody: "missing authorization header"},
		{name: "wrong scheme", header: "Token " + token, wantStatus: http.StatusUnauthorized, wantBody: "invalid authorization header format"},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantBody: "invalid authorization header format"},
		{name: "rejected token", header: "Bearer garbage", wantStatus: http.StatusUnauthorized, wantBody: "invalid or expired token"},
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/teams", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
				assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
			}
		})
	}

	require.NotNil(t, seen)
	assert.Equal(t, 1, registry.Len())
}

func TestAuthMiddleware_UpstreamFailure(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		code        string
		wantStatus  int
		wantHandled bool
	}{
		{name: "service unavailable", status: http.StatusServiceUnavailable, wantStatus: http.StatusBadGateway, wantHandled: true},
		{name: "server error with envelope", status: http.StatusInternalServerError, code: "server_error", wantStatus: http.StatusBadGateway, wantHandled: true},
		{name: "unauthorized", status: http.StatusUnauthorized, code: "not_authenticated", wantStatus: http.StatusUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, code: "permission_denied", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := fakeapi.New("test-secret")
			fake.AddUser(domain.User{Email: "a@b.com", FullName: "A B"}, "pw", true)
			fake.Fail(http.MethodGet, "/auth/", tt.status, tt.code, "")
			upstream := httptest.NewServer(fake)
			defer upstream.Close()

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			registry := session.NewRegistry(gateway.NewClient(upstream.URL, upstream.Client(), logger), time.Hour, logger)

			var handled error
			onError := func(w http.ResponseWriter, _ *http.Request, err error) {
				handled = err
				w.WriteHeader(http.StatusBadGateway)
			}
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				t.Error("next handler must not be called")
			})

			token, _, err := fake.IssueToken("a@b.com")
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/teams", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			AuthMiddleware(registry, onError)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, 0, registry.Len())
			if !tt.wantHandled {
				assert.NoError(t, handled)
				assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
				return
			}

			var loginErr *domain.APIError[domain.LoginStatus]
			require.ErrorAs(t, handled, &loginErr)
			assert.Equal(t, domain.LoginError, loginErr.Status)

			var respErr *gateway.ResponseError
			require.ErrorAs(t, handled, &respErr)
			assert.Equal(t, tt.status, respErr.StatusCode)
		})
	}
}
