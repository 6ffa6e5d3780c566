package main

import (
	"medbook/internal/identity/handler"
	"medbook/internal/identity/repository"
	"medbook/internal/identity/service"
	"medbook/internal/identity/validator"
	"medbook/pkg/app"
	"medbook/pkg/auth"
	"medbook/pkg/config"
)

const ServiceName = "identity"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Identity service")
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTokenTTL)
	identityService := initServices(cfg, tokenManager)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewIdentityHandler(identityService, cfg.Log), app.Options{
		TokenManager: tokenManager,
		PublicPrefixes: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
		},
	})
	serverApp.Run()
}

func initServices(cfg *config.Config, tokenManager *auth.TokenManager) service.IdentityService {
	userValidator := validator.NewUserValidator(cfg.Log)
	userRepo := repository.NewMongoUserRepository(cfg)

	identityService := service.NewIdentityService(
		userRepo,
		userValidator,
		tokenManager,
		cfg,
	)

	cfg.Log.Info("Identity service initialized", "database", cfg.MongoDatabaseName)
	return identityService
}
