package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	httptransport "github.com/bazaarhq/marketplace/internal/api/http"
	"github.com/bazaarhq/marketplace/internal/api/http/handlers"
	"github.com/bazaarhq/marketplace/internal/authz"
	"github.com/bazaarhq/marketplace/internal/catalog"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/bazaarhq/marketplace/internal/server"
	"github.com/bazaarhq/marketplace/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := server.Bootstrap(ctx, "orders")
	if err != nil {
		log.Fatalf("failed to start orders service: %v", err)
	}
	cfg := rt.Config
	if err := cfg.RequireTenant(); err != nil {
		rt.Logger.Fatal("invalid configuration", zap.Error(err))
	}

	pool := rt.Postgres.PoolHandle()
	products := catalog.NewClient(cfg.Catalog.ProductServiceURL, cfg.Authz.Timeout(), rt.Logger)
	carts := repository.NewCartRepository(pool)
	orders := service.NewOrderService(repository.NewOrderRepository(pool), carts, products, cfg.Tenant.ID)

	identity := authz.NewIdentityMiddleware(authz.Dependencies{
		Verifier: authz.NewAuthClient(cfg.Authz.AuthServiceURL, cfg.Authz.Timeout(), rt.Logger),
		Logger:   rt.Logger,
		Metrics:  rt.Metrics,
	})
	httptransport.RegisterOrderRoutes(rt.App, handlers.NewOrderHandler(orders, service.NewCartService(carts, products, cfg.Tenant.ID)), identity)

	rt.Run()
}
