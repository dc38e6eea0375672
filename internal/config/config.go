package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Env      string         `envconfig:"APP_ENV" default:"development"` // Окружение: development или production
	Server   ServerConfig   // Настройки HTTP сервера
	Upstream UpstreamConfig // Настройки удаленного сервиса Arkavidia
	Session  SessionConfig  // Настройки сессий
	Log      LogConfig      // Настройки логирования
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	BasePath        string        `envconfig:"BASE_PATH" default:"/"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// UpstreamConfig содержит адрес и таймаут удаленного REST сервиса
type UpstreamConfig struct {
	BaseURL string        `envconfig:"API_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
}

// SessionConfig содержит настройки сессий
type SessionConfig struct {
	TTLHours int `envconfig:"SESSION_TTL_HOURS" default:"24"` // Срок жизни восстановленного токена без exp
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// RoutePrefix возвращает BASE_PATH в виде префикса маршрутов: с ведущим слешем и без завершающего.
// Корень ("/" или пустая строка) дает пустой префикс.
func (s ServerConfig) RoutePrefix() string {
	base := strings.Trim(s.BasePath, "/")
	if base == "" {
		return ""
	}
	return "/" + base
}

// GetTTL возвращает срок жизни сессии как time.Duration
func (s SessionConfig) GetTTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// SlogLevel возвращает уровень логирования для slog; неизвестные значения дают info
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnvFile возвращает имя env файла для окружения.
// В production BUILD_ENV выбирает между staging, archive и production.
func EnvFile(appEnv, buildEnv string) string {
	if appEnv != "production" {
		return ".env.development"
	}
	switch buildEnv {
	case "staging":
		return ".env.staging"
	case "archive":
		return ".env.archive"
	default:
		return ".env.production"
	}
}

// LoadEnvFile загружает env файл окружения из dir.
// Отсутствие файла не ошибка; уже заданные переменные окружения не перезаписываются.
func LoadEnvFile(dir string) (string, error) {
	name := EnvFile(os.Getenv("APP_ENV"), os.Getenv("BUILD_ENV"))
	path := filepath.Join(dir, name)

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return path, nil
}

// Load читает env файл окружения и конфигурацию из переменных окружения
func Load() (*Config, error) {
	if _, err := LoadEnvFile(""); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
