package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	httptransport "github.com/bazaarhq/marketplace/internal/api/http"
	"github.com/bazaarhq/marketplace/internal/api/http/handlers"
	"github.com/bazaarhq/marketplace/internal/authz"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/bazaarhq/marketplace/internal/server"
	"github.com/bazaarhq/marketplace/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := server.Bootstrap(ctx, "products")
	if err != nil {
		log.Fatalf("failed to start products service: %v", err)
	}
	cfg := rt.Config
	if err := cfg.RequireTenant(); err != nil {
		rt.Logger.Fatal("invalid configuration", zap.Error(err))
	}

	pool := rt.Postgres.PoolHandle()
	catalog := service.NewCatalogService(
		repository.NewProductRepository(pool),
		repository.NewCategoryRepository(pool),
		cfg.Tenant.ID,
	)
	owner := authz.NewTenantOwnerMiddleware(authz.Dependencies{
		Verifier: authz.NewAuthClient(cfg.Authz.AuthServiceURL, cfg.Authz.Timeout(), rt.Logger),
		Resolver: authz.NewTenantClient(cfg.Authz.TenantServiceURL, cfg.Authz.Timeout(), rt.Logger),
		TenantID: cfg.Tenant.ID,
		Logger:   rt.Logger,
		Metrics:  rt.Metrics,
	})
	httptransport.RegisterProductRoutes(rt.App, handlers.NewProductHandler(catalog), owner)

	rt.Run()
}
