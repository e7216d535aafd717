package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casevault/backend/internal/battle"
	"github.com/casevault/backend/internal/bootstrap"
	"github.com/casevault/backend/internal/catalog"
	"github.com/casevault/backend/internal/concurrency"
	"github.com/casevault/backend/internal/config"
	"github.com/casevault/backend/internal/database"
	"github.com/casevault/backend/internal/draw"
	"github.com/casevault/backend/internal/fairness"
	"github.com/casevault/backend/internal/ledger"
	"github.com/casevault/backend/internal/server"
	"github.com/casevault/backend/internal/sse"
	"github.com/casevault/backend/internal/worker"
)

const (
	dbMaxConns      = 10
	dbMaxIdleTime   = 5 * time.Minute
	dbMaxLifetime   = 30 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	if err := run(cfg); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	connString := cfg.GetDBConnString()

	if err := database.Migrate(connString); err != nil {
		return err
	}

	dbPool, err := database.NewPool(connString, dbMaxConns, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	lockManager := concurrency.NewLockManager()

	catalogService := catalog.NewService(repos.Catalog)
	fairnessService := fairness.NewService(repos.Nonce)
	ledgerService := ledger.NewService(repos.Ledger)
	drawService := draw.NewService(repos.Draw, catalogService, fairnessService, publisher, lockManager, cfg.MaxClientSeedLength)
	battleService := battle.NewService(repos.Battle, catalogService, ledgerService, drawService, publisher, lockManager, cfg.BattleJoinDuration)

	ctx := context.Background()
	if err := bootstrap.SeedCatalog(ctx, catalogService, cfg.CatalogPath); err != nil {
		return err
	}

	hub := sse.NewHub()
	hub.Start()

	if err := bootstrap.RegisterEventHandlers(eventBus, hub); err != nil {
		return err
	}

	battleWorker := worker.NewBattleWorker(battleService)
	battleWorker.Subscribe(eventBus)
	battleWorker.Start()

	recoveryWorker := worker.NewRecoveryWorker(drawService, battleService, cfg.RecoveryInterval, cfg.RecoveryGracePeriod)
	recoveryWorker.Start()

	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, dbPool, catalogService, drawService, battleService, ledgerService, hub)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		BattleWorker:       battleWorker,
		RecoveryWorker:     recoveryWorker,
		Hub:                hub,
		ResilientPublisher: publisher,
	})

	return nil
}
