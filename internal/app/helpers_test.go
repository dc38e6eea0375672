package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arkavidia/competition-gateway/internal/config"
	"github.com/arkavidia/competition-gateway/internal/domain"
	"github.com/arkavidia/competition-gateway/internal/gateway/fakeapi"
)

// TestEnvironment содержит фейковый сервис Arkavidia и запущенный фасад
type TestEnvironment struct {
	Upstream *fakeapi.Server
	App      *App
	BaseURL  string
	client   *http.Client
}

// SetupTestEnvironment создает фейковый сервис и поднимает фасад поверх него
func SetupTestEnvironment(t *testing.T, basePath string) *TestEnvironment {
	t.Helper()

	upstream := fakeapi.New("test-secret")
	upstream.AddUser(domain.User{Email: "a@b.com", FullName: "A B"}, "secret", true)
	upstream.AddUser(domain.User{Email: "new@b.com", FullName: "New"}, "secret", false)
	upstream.AddCompetition(domain.Competition{ID: 1, Slug: "cp", Name: "Competitive Programming", IsRegistrationOpen: true})
	upstream.AddCompetition(domain.Competition{ID: 2, Slug: "ctf", Name: "Capture The Flag", IsRegistrationOpen: true})
	upstreamServer := httptest.NewServer(upstream)
	t.Cleanup(upstreamServer.Close)

	cfg := &config.Config{
		Env: "test",
		Server: config.ServerConfig{
			Port:     "0",
			Host:     "127.0.0.1",
			BasePath: basePath,
		},
		Upstream: config.UpstreamConfig{
			BaseURL: upstreamServer.URL,
			Timeout: 5 * time.Second,
		},
		Session: config.SessionConfig{TTLHours: 1},
		Log:     config.LogConfig{Level: "debug"},
	}

	application, err := NewWithLogger(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err, "Failed to create application")
	require.NoError(t, application.Initialize(context.Background()), "Failed to initialize application")

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)

	return &TestEnvironment{
		Upstream: upstream,
		App:      application,
		BaseURL:  server.URL + cfg.Server.RoutePrefix(),
		client:   server.Client(),
	}
}

// Do отправляет запрос к фасаду и возвращает ответ
func (e *TestEnvironment) Do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.BaseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// Login выполняет логин и возвращает токен
func (e *TestEnvironment) Login(t *testing.T, email, password string) string {
	t.Helper()

	resp := e.Do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	decodeJSON(t, resp, &login)
	require.NotEmpty(t, login.Token)
	return login.Token
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// errorCode читает код ошибки из тела ответа
func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeJSON(t, resp, &body)
	return body.Error.Code
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
