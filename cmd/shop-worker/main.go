package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopsim/internal/config"
	"shopsim/internal/db"
	"shopsim/internal/game"
	"shopsim/internal/sim"
	"shopsim/internal/store"
)

type batchRunner struct {
	cfg     config.WorkerConfig
	catalog *game.Catalog
	runs    *store.Runs
	log     *slog.Logger
	// quiet receives the per-step shop events.
	quiet *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWorkerFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	catalog, err := game.CatalogFromPath(cfg.CatalogPath)
	if err != nil {
		logger.Error("load catalog", "path", cfg.CatalogPath, "err", err)
		os.Exit(1)
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	runs := store.NewRuns(pool)
	if err := runs.EnsureSchema(ctx); err != nil {
		logger.Error("schema init failed", "err", err)
		os.Exit(1)
	}

	w := &batchRunner{
		cfg:     cfg,
		catalog: catalog,
		runs:    runs,
		log:     logger,
		quiet:   slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	if cfg.RunOnce {
		if err := w.runBatch(ctx); err != nil {
			logger.Error("batch failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed")
		return
	}

	ticker := time.NewTicker(cfg.Every)
	defer ticker.Stop()

	logger.Info("worker started", "every", cfg.Every.String(), "batch", cfg.Batch)
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutdown")
			return
		case <-ticker.C:
			if err := w.runBatch(ctx); err != nil {
				logger.Error("batch failed", "err", err)
				continue
			}
		}
	}
}

func (w *batchRunner) runBatch(ctx context.Context) error {
	stamp := time.Now().UTC().Format("20060102T150405")
	saved := 0
	for i := 0; i < w.cfg.Batch; i++ {
		seed := rand.Int64()
		res, err := sim.Run(ctx, sim.Options{
			Seed:     seed,
			MaxSteps: w.cfg.MaxSteps,
			Catalog:  w.catalog,
			Logger:   w.quiet,
		})
		if err != nil {
			return fmt.Errorf("simulate seed %d: %w", seed, err)
		}
		run := store.NewRun(res, fmt.Sprintf("worker-%s-%d", stamp, i))
		if err := w.runs.SaveRun(ctx, &run); err != nil {
			if errors.Is(err, store.ErrDuplicateRun) {
				continue
			}
			return fmt.Errorf("save seed %d: %w", seed, err)
		}
		saved++
	}
	w.log.Info("batch complete", "saved", saved, "requested", w.cfg.Batch)
	return nil
}
