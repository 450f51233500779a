// Package app wires configuration, storage, services and transports.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	httpadapter "cookieaudit/internal/adapters/http"
	"cookieaudit/internal/adapters/memory"
	pg "cookieaudit/internal/adapters/postgres"
	"cookieaudit/internal/config"
	"cookieaudit/internal/ports"
	"cookieaudit/internal/services/attribution"
	"cookieaudit/internal/services/issues"
	"cookieaudit/internal/workers/ingestrunner"
)

type repositories interface {
	ports.IssueRepository
	ports.JobRepository
}

// Serve runs the HTTP API and ingest workers until ctx is cancelled.
func Serve(ctx context.Context, cfg config.Config, log logrus.FieldLogger) error {
	var repo repositories
	if cfg.DatabaseURL != "" {
		if err := pg.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()
		repo = db
	} else {
		log.Warn("DATABASE_URL not set, issues are kept in memory")
		repo = memory.New()
	}

	frames := attribution.NewTopFrames()
	svc := issues.New(repo, frames, log)
	processor := ingestrunner.IngestProcessor{Ingester: svc}

	r := chi.NewRouter()
	r.Mount("/", httpadapter.New(svc, frames, repo, processor, log).Routes())
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	if cfg.IngestWorkers > 0 {
		g.Go(func() error {
			ingestrunner.Run(ctx, repo, processor, cfg.IngestWorkers, cfg.PollInterval, log)
			return nil
		})
		log.WithField("workers", cfg.IngestWorkers).Info("ingest workers started")
	}
	g.Go(func() error {
		log.WithField("addr", cfg.ListenAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
