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

	rt, err := server.Bootstrap(ctx, "wishlist")
	if err != nil {
		log.Fatalf("failed to start wishlist service: %v", err)
	}
	cfg := rt.Config
	if err := cfg.RequireTenant(); err != nil {
		rt.Logger.Fatal("invalid configuration", zap.Error(err))
	}

	wishlists := service.NewWishlistService(
		repository.NewWishlistRepository(rt.Postgres.PoolHandle()),
		catalog.NewClient(cfg.Catalog.ProductServiceURL, cfg.Authz.Timeout(), rt.Logger),
		cfg.Tenant.ID,
	)
	identity := authz.NewIdentityMiddleware(authz.Dependencies{
		Verifier: authz.NewAuthClient(cfg.Authz.AuthServiceURL, cfg.Authz.Timeout(), rt.Logger),
		Logger:   rt.Logger,
		Metrics:  rt.Metrics,
	})
	httptransport.RegisterWishlistRoutes(rt.App, handlers.NewWishlistHandler(wishlists), identity)

	rt.Run()
}
