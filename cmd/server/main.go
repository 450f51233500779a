package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"cookieaudit/internal/app"
	"cookieaudit/internal/config"
	"cookieaudit/internal/logging"
)

func main() {
	cfg, cfgErr := config.Load()
	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log, _ = logging.New(os.Stderr, "info", "text")
		log.WithError(err).Warn("invalid logging config, using defaults")
	}
	if cfgErr != nil && !errors.Is(cfgErr, config.ErrNoDatabase) {
		log.WithError(cfgErr).Fatal("config error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("shut down")
}
