package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	LockMemory   = "memory"
	LockAdvisory = "advisory"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Tally"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tally"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AuthSecret  string        `envconfig:"AUTH_SECRET"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Store string `envconfig:"STORE" default:"postgres"`

	Budget struct {
		Debounce time.Duration `envconfig:"BUDGET_DEBOUNCE" default:"500ms"`
		Lock     string        `envconfig:"BUDGET_LOCK" default:"memory"`
		DraftTTL time.Duration `envconfig:"BUDGET_DRAFT_TTL" default:"30m"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}

	switch c.Budget.Lock {
	case LockMemory:
	case LockAdvisory:
		if c.Store != StorePostgres {
			return fmt.Errorf("BUDGET_LOCK=%s requires STORE=%s", LockAdvisory, StorePostgres)
		}
	default:
		return fmt.Errorf("BUDGET_LOCK must be %q or %q, got %q", LockMemory, LockAdvisory, c.Budget.Lock)
	}

	if c.Budget.Debounce <= 0 {
		return fmt.Errorf("BUDGET_DEBOUNCE must be positive, got %s", c.Budget.Debounce)
	}

	if c.Budget.DraftTTL <= 0 {
		return fmt.Errorf("BUDGET_DRAFT_TTL must be positive, got %s", c.Budget.DraftTTL)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.Store = strings.ToLower(cfg.Store)
	cfg.Budget.Lock = strings.ToLower(cfg.Budget.Lock)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
