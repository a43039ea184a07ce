// Package main is the entry point for the Jargas ledger API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"jargas/internal/core/numerator"
	"jargas/internal/domain/discrepancy"
	"jargas/internal/domain/documents/installed"
	"jargas/internal/domain/documents/letter"
	"jargas/internal/domain/documents/returns"
	"jargas/internal/domain/documents/stock_in"
	"jargas/internal/domain/documents/stock_out"
	"jargas/internal/domain/registers/stock"
	"jargas/internal/infrastructure/cache"
	"jargas/internal/infrastructure/config"
	v1 "jargas/internal/infrastructure/http/v1"
	"jargas/internal/infrastructure/http/v1/handlers"
	infranumerator "jargas/internal/infrastructure/numerator"
	"jargas/internal/infrastructure/storage/postgres"
	"jargas/internal/infrastructure/storage/postgres/catalog_repo"
	"jargas/internal/infrastructure/storage/postgres/document_repo"
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

	ctx := context.Background()
	log.Infow("starting jargas server", "env", cfg.App.Env)

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.NewPoolConfig(cfg.Database, cfg.App.Name))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)

	// --- Balance cache ---
	healthChecks := map[string]handlers.Pinger{"database": pool}
	var balanceCache interface {
		stock.SnapshotCache
		stock.Invalidator
	} = stock.NoopCache{}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err, "addr", cfg.Redis.Addr())
		}
		defer func() { _ = client.Close() }()

		balanceCache = cache.NewBalanceCache(client, cfg.Redis.SnapshotTTL)
		healthChecks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		log.Infow("balance cache enabled", "addr", cfg.Redis.Addr(), "ttl", cfg.Redis.SnapshotTTL)
	}

	// --- Repositories ---
	materials := catalog_repo.NewMaterialRepo(txManager)
	mandors := catalog_repo.NewMandorRepo(txManager)
	projects := catalog_repo.NewProjectRepo(txManager)

	stockIns := document_repo.NewStockInRepo(txManager)
	stockOuts := document_repo.NewStockOutRepo(txManager)
	installations := document_repo.NewInstalledRepo(txManager)
	returnRepo := document_repo.NewReturnRepo(txManager)
	letters := document_repo.NewLetterRepo(txManager)

	// --- Services ---
	strategy := numerator.ParseStrategy(cfg.Numbering.Strategy)
	numbers := infranumerator.New(txManager, strategy)
	retry := cfg.Numbering.RetryPolicy()
	log.Infow("numbering configured", "strategy", strategy, "max_attempts", retry.MaxAttempts)

	stockOutService := stock_out.NewService(stock_out.ServiceConfig{
		Repo:        stockOuts,
		Materials:   materials,
		Mandors:     mandors,
		Numerator:   numbers,
		TxManager:   txManager,
		Retry:       &retry,
		Invalidator: balanceCache,
	})

	services := v1.Services{
		Balance: stock.NewService(register_repo.NewStockRepo(txManager), txManager, balanceCache),
		Discrepancy: discrepancy.NewService(
			register_repo.NewDiscrepancyRepo(txManager), materials, mandors, txManager,
			cfg.Worker.PairWarnThreshold),
		StockIn:  stock_in.NewService(stockIns, materials, txManager, balanceCache),
		StockOut: stockOutService,
		Installed: installed.NewService(installed.ServiceConfig{
			Repo:        installations,
			StockOuts:   stockOuts,
			Returns:     returnRepo,
			Materials:   materials,
			Mandors:     mandors,
			TxManager:   txManager,
			Invalidator: balanceCache,
		}),
		Returns: returns.NewService(returns.ServiceConfig{
			Repo:        returnRepo,
			StockOuts:   stockOuts,
			Installed:   installations,
			Issuer:      stockOutService,
			TxManager:   txManager,
			Retry:       &retry,
			Invalidator: balanceCache,
		}),
		Letters: letter.NewService(letters, projects, numbers, txManager, retry),
	}

	// --- Router ---
	router, err := v1.NewRouter(v1.RouterConfig{
		AppName:        cfg.App.Name,
		Debug:          cfg.App.IsDevelopment(),
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		Logger:         log,
		HealthChecks:   healthChecks,
		Services:       services,
	})
	if err != nil {
		log.Fatalw("failed to build router", "error", err)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
