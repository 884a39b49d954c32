package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Database  DatabaseConfig  `toml:"database"`
	TourAPI   TourAPIConfig   `toml:"tour_api"`
	Session   SessionConfig   `toml:"session"`
	Store     StoreConfig     `toml:"store"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	CORS      CORSConfig      `toml:"cors"`
	App       AppConfig       `toml:"app"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// TourAPIConfig настройки внешнего API маркетплейса (таймауты в секундах)
type TourAPIConfig struct {
	URL             string `toml:"url"`
	Timeout         int    `toml:"timeout"`
	MutationTimeout int    `toml:"mutation_timeout"`
}

// MutationBudget худшее время мутации в секундах: чтение списка, вызов API и перечитывание снимка
func (c TourAPIConfig) MutationBudget() int {
	return c.Timeout + 2*c.MutationTimeout
}

// SessionConfig настройки сессии, которую выдаёт внешний API
type SessionConfig struct {
	CookieName string `toml:"cookie_name"`
}

// StoreConfig настройки локального снимка слотов
type StoreConfig struct {
	MaxAgeSeconds int `toml:"max_age_seconds"`
}

// RedisConfig настройки Redis для защиты от повторных отправок
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RateLimitConfig лимит запросов на гида
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// CORSConfig настройки CORS для дашборда
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// AppConfig прикладные настройки
type AppConfig struct {
	Timezone string `toml:"timezone"`
}

// Location часовой пояс, в котором считается "сегодня"
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Load читает конфигурацию из TOML файла.
// Перед этим подгружается .env (если есть), переменные окружения перекрывают секреты и адреса.
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if c.TourAPI.URL == "" {
		problems = append(problems, "tour_api.url is required")
	}
	if c.TourAPI.Timeout <= 0 {
		problems = append(problems, "tour_api.timeout must be positive")
	}
	if c.TourAPI.MutationTimeout <= 0 {
		problems = append(problems, "tour_api.mutation_timeout must be positive")
	}
	if budget := c.TourAPI.MutationBudget(); c.Server.WriteTimeout > 0 && c.Server.WriteTimeout < budget {
		problems = append(problems, fmt.Sprintf(
			"server.write_timeout must be at least %ds (tour_api.timeout + 2 * tour_api.mutation_timeout)", budget))
	}
	if c.Session.CookieName == "" {
		problems = append(problems, "session.cookie_name is required")
	}
	if c.Store.MaxAgeSeconds < 0 {
		problems = append(problems, "store.max_age_seconds must not be negative")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "rate_limit.requests_per_second and rate_limit.burst must be positive")
	}
	if _, err := c.App.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("app.timezone: %v", err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    75,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "availability_service",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		TourAPI: TourAPIConfig{
			Timeout:         10,
			MutationTimeout: 30,
		},
		Session: SessionConfig{
			CookieName: "accessToken",
		},
		Store: StoreConfig{
			MaxAgeSeconds: 60,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("TOUR_API_URL"); v != "" {
		cfg.TourAPI.URL = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("APP_TIMEZONE"); v != "" {
		cfg.App.Timezone = v
	}
}
