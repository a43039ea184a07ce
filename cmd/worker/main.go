// Package main is the entry point for the Jargas background worker.
// It runs the scheduled discrepancy reconciliation for every active project.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jargas/internal/domain/discrepancy"
	"jargas/internal/infrastructure/config"
	"jargas/internal/infrastructure/storage/postgres"
	"jargas/internal/infrastructure/storage/postgres/catalog_repo"
	"jargas/internal/infrastructure/storage/postgres/register_repo"
	"jargas/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	if !cfg.Worker.Enabled {
		log.Info("worker disabled, exiting")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infow("starting jargas worker", "schedule", cfg.Worker.DiscrepancySchedule)

	pool, err := postgres.NewPool(ctx, postgres.NewPoolConfig(cfg.Database, cfg.App.Name+"-worker"))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)

	checker := discrepancy.NewService(
		register_repo.NewDiscrepancyRepo(txManager),
		catalog_repo.NewMaterialRepo(txManager),
		catalog_repo.NewMandorRepo(txManager),
		txManager,
		cfg.Worker.PairWarnThreshold,
	)
	job := NewDiscrepancyJob(catalog_repo.NewProjectRepo(txManager), checker, cfg.Worker.JobTimeout, log)

	scheduler := NewScheduler(log.WithComponent("cron"))
	if _, err := job.Schedule(ctx, scheduler, cfg.Worker.DiscrepancySchedule); err != nil {
		log.Fatalw("invalid discrepancy schedule", "schedule", cfg.Worker.DiscrepancySchedule, "error", err)
	}
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	// Wait for a running pass to observe the cancellation.
	<-scheduler.Stop().Done()
	pool.LogStats(context.Background())

	log.Info("worker stopped")
}
