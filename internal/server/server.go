// Package server holds the startup sequence shared by the marketplace services.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/bazaarhq/marketplace/internal/api/http"
	"github.com/bazaarhq/marketplace/internal/api/http/handlers"
	"github.com/bazaarhq/marketplace/internal/config"
	"github.com/bazaarhq/marketplace/internal/observability"
	"github.com/bazaarhq/marketplace/internal/persistence"
)

// Runtime is a fully wired service ready to have its routes registered.
type Runtime struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Postgres *persistence.Postgres
	Redis    *persistence.Redis
	App      *fiber.App
}

// Bootstrap loads configuration and connects every shared dependency of serviceName.
func Bootstrap(ctx context.Context, serviceName string) (*Runtime, error) {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger = logger.With(zap.String("service", cfg.App.Name))

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			pg.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(serviceName)
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterMetrics(app, cfg.Metrics.Path, metrics)
	httptransport.RegisterHealthRoutes(app, handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
		"postgres": pg,
		"redis":    redis,
	}))

	return &Runtime{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Postgres: pg,
		Redis:    redis,
		App:      app,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then shuts down and releases dependencies.
func (r *Runtime) Run() {
	defer r.Logger.Sync() //nolint:errcheck
	defer r.Postgres.Close()
	defer r.Redis.Close()

	go func() {
		if err := r.App.Listen(r.Config.App.Addr()); err != nil {
			r.Logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(r.Logger)

	if err := r.App.Shutdown(); err != nil {
		r.Logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
