package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ErrNoDatabase is returned alongside a usable Config when DATABASE_URL is unset.
var ErrNoDatabase = errors.New("DATABASE_URL not set")

type Config struct {
	Env           string        `envconfig:"APP_ENV" default:"development"`
	ListenAddr    string        `envconfig:"LISTEN_ADDR" default:":8080"`
	DatabaseURL   string        `envconfig:"DATABASE_URL"`
	DBMaxConns    int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	IngestWorkers int           `envconfig:"INGEST_WORKERS" default:"2"`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"500ms"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat     string        `envconfig:"LOG_FORMAT" default:"text"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		// Not fatal: callers fall back to the in-memory store.
		return cfg, ErrNoDatabase
	}
	return cfg, nil
}
