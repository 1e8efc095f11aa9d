// Package app wires the store, import pipeline and HTTP API into a running
// service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/pmguide/internal/api"
	"github.com/dgallion1/pmguide/internal/config"
	"github.com/dgallion1/pmguide/internal/pipeline"
	"github.com/dgallion1/pmguide/internal/seed"
	"github.com/dgallion1/pmguide/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Run serves the API until ctx is cancelled, then stops the import workers
// and drains in-flight requests.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if cfg.SeedFile != "" {
		res, err := seed.LoadFile(ctx, cfg.SeedFile, st, log)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info("seed loaded", "file", cfg.SeedFile,
			"standards", res.StandardsCreated, "sections", res.SectionsCreated,
			"comparisons", res.ComparisonsCreated, "templates", res.TemplatesCreated)
	}

	orch := pipeline.NewOrchestrator(cfg, st, log)
	orch.Start(context.WithoutCancel(ctx))

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewServer(st, orch, log, cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting pmguide", "port", cfg.Port, "data_dir", st.Path())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		orch.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	orch.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
