package main

import (
	"context"
	"log"

	httptransport "github.com/bazaarhq/marketplace/internal/api/http"
	"github.com/bazaarhq/marketplace/internal/api/http/handlers"
	"github.com/bazaarhq/marketplace/internal/authz"
	"github.com/bazaarhq/marketplace/internal/events"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/bazaarhq/marketplace/internal/server"
	"github.com/bazaarhq/marketplace/internal/service"
	"github.com/bazaarhq/marketplace/internal/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := server.Bootstrap(ctx, "tenant")
	if err != nil {
		log.Fatalf("failed to start tenant service: %v", err)
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, rt.Logger, rt.Metrics)

	tenants := service.NewTenantService(repository.NewTenantRepository(rt.Postgres.PoolHandle()), dispatcher, rt.Logger)
	identity := authz.NewIdentityMiddleware(authz.Dependencies{
		Verifier: authz.NewAuthClient(rt.Config.Authz.AuthServiceURL, rt.Config.Authz.Timeout(), rt.Logger),
		Logger:   rt.Logger,
		Metrics:  rt.Metrics,
	})
	httptransport.RegisterTenantRoutes(rt.App, handlers.NewTenantHandler(tenants), identity)

	rt.Run()
}
