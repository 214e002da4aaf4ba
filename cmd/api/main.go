package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aid-portal/beneficiary_portal/internal/config"
	"github.com/aid-portal/beneficiary_portal/internal/infra"
	"github.com/aid-portal/beneficiary_portal/internal/logging"
	"github.com/aid-portal/beneficiary_portal/internal/metrics"
	"github.com/aid-portal/beneficiary_portal/internal/routes"
	"github.com/aid-portal/beneficiary_portal/internal/server"
	"github.com/aid-portal/beneficiary_portal/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.AppEnv, cfg.AppName)
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited cleanly")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()
	deps := routes.Deps{Cfg: cfg, Logger: logger, Registry: metrics.NewRegistry()}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if cfg.RunMigrations {
			if err := infra.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("migrations applied")
		}
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		deps.DB = db
		deps.Backend = store.NewPostgres(db)
	case config.BackendSupabase:
		client, err := infra.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			return err
		}
		deps.Supabase = client
		deps.Backend = store.NewSupabase(client)
	case config.BackendMemory:
		logger.Warn("using in-memory record store, data is lost on restart")
		deps.Backend = store.NewMemory().Backend
	}

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if cache != nil {
		deps.Cache = cache
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	}

	srv, err := server.New(deps)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()
	logger.Info("listening", "addr", cfg.Address(), "store", cfg.StoreBackend, "redis", cache != nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
