package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arkavidia/competition-gateway/internal/config"
	"github.com/arkavidia/competition-gateway/internal/gateway"
	"github.com/arkavidia/competition-gateway/internal/handler"
	"github.com/arkavidia/competition-gateway/internal/middleware"
	"github.com/arkavidia/competition-gateway/internal/session"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config   *config.Config
	registry *session.Registry
	router   http.Handler
	server   *http.Server
	logger   *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	return NewWithLogger(cfg, logger)
}

// NewWithLogger создает приложение с заданным логгером
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.Upstream.BaseURL == "" {
		return nil, errors.New("upstream base url is empty")
	}

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// HTTP клиент удаленного сервиса; таймаут задается транспортом
	httpClient := &http.Client{Timeout: a.config.Upstream.Timeout}
	client := gateway.NewClient(a.config.Upstream.BaseURL, httpClient, a.logger.With("component", "gateway"))

	a.registry = session.NewRegistry(client, a.config.Session.GetTTL(), a.logger.With("component", "session"))

	// Настраиваем HTTP сервер и роутинг
	a.setupServer()

	a.logger.InfoContext(ctx, "Application initialized successfully",
		"env", a.config.Env,
		"upstream", a.config.Upstream.BaseURL,
	)
	return nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() {
	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(a.registry)
	competitionHandler := handler.NewCompetitionHandler()
	storeHandler := handler.NewStoreHandler()

	// Middleware авторизации по bearer токену
	authMiddleware := middleware.AuthMiddleware(a.registry, handler.HandleError)

	routes := func(r chi.Router) {
		// Публичные эндпоинты (без авторизации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/password-reset", authHandler.Recover)
			r.Post("/confirm-password-reset", authHandler.ResetPassword)
			r.Post("/confirm-registration", authHandler.ConfirmRegistration)
		})

		// Health check для мониторинга
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
				a.logger.Error("Failed to write health check response", "error", err)
			}
		})

		// Защищенные эндпоинты (требуют bearer токен в заголовке Authorization)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			// Сессия и профиль
			r.Get("/auth/session", authHandler.Session)
			r.Get("/auth/user", authHandler.GetUser)
			r.Patch("/auth/user", authHandler.EditUser)
			r.Post("/auth/logout", authHandler.Logout)

			// Соревнования и команды
			r.Get("/competitions", competitionHandler.ListCompetitions)
			r.Post("/competitions/{competitionID}/teams", competitionHandler.RegisterTeam)
			r.Get("/teams", competitionHandler.ListTeams)
			r.Get("/teams/{teamID}", competitionHandler.GetTeam)
			r.Patch("/teams/{teamID}", competitionHandler.ChangeTeam)
			r.Delete("/teams/{teamID}", competitionHandler.DeleteTeam)
			r.Post("/teams/{teamID}/members", competitionHandler.AddMember)
			r.Delete("/teams/{teamID}/members/{memberID}", competitionHandler.RemoveMember)
			r.Post("/teams/{teamID}/tasks/{taskID}", competitionHandler.SubmitTask)

			// Представления кэша сессии
			r.Route("/store", func(r chi.Router) {
				r.Get("/competitions", storeHandler.Competitions)
				r.Get("/competitions/by-slug", storeHandler.CompetitionsBySlug)
				r.Get("/teams", storeHandler.Teams)
				r.Get("/teams/by-id", storeHandler.TeamsByID)
				r.Get("/teams/by-slug", storeHandler.TeamsBySlug)
			})
		})
	}

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// BASE_PATH позволяет развернуть фасад под префиксом
	if base := a.config.Server.RoutePrefix(); base != "" {
		r.Route(base, routes)
	} else {
		routes(r)
	}

	a.router = r

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Handler возвращает корневой HTTP обработчик
func (a *App) Handler() http.Handler {
	return a.router
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	a.logger.Info("Application stopped gracefully", "sessions", a.registry.Len())
	return nil
}
