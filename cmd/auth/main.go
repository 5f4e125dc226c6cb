package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	httptransport "github.com/bazaarhq/marketplace/internal/api/http"
	"github.com/bazaarhq/marketplace/internal/api/http/handlers"
	"github.com/bazaarhq/marketplace/internal/auth"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/bazaarhq/marketplace/internal/server"
	"github.com/bazaarhq/marketplace/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := server.Bootstrap(ctx, "auth")
	if err != nil {
		log.Fatalf("failed to start auth service: %v", err)
	}
	if err := rt.Config.RequireTenant(); err != nil {
		rt.Logger.Fatal("invalid configuration", zap.Error(err))
	}

	authService := service.NewAuthService(*rt.Config, service.AuthDependencies{
		UserRepo:    repository.NewUserRepository(rt.Postgres.PoolHandle()),
		Revocations: auth.NewRedisRevocationStore(rt.Redis.Client),
	})
	httptransport.RegisterAuthRoutes(rt.App, handlers.NewAuthHandler(authService))

	rt.Run()
}
