package main

import (
	"medbook/internal/catalog/handler"
	"medbook/internal/catalog/repository"
	"medbook/internal/catalog/service"
	"medbook/internal/catalog/validator"
	"medbook/pkg/app"
	"medbook/pkg/auth"
	"medbook/pkg/config"
)

const ServiceName = "catalog"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Catalog service")
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	catalogService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewCatalogHandler(catalogService, cfg.Log), app.Options{
		TokenManager: auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTokenTTL),
	})
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CatalogService {
	catalogValidator := validator.NewCatalogValidator(cfg.Log)
	businessRepo := repository.NewMongoBusinessRepository(cfg)
	serviceRepo := repository.NewMongoServiceRepository(cfg)
	specialistRepo := repository.NewMongoSpecialistRepository(cfg)

	catalogService := service.NewCatalogService(
		businessRepo,
		serviceRepo,
		specialistRepo,
		catalogValidator,
		cfg,
	)

	cfg.Log.Info("Catalog service initialized", "database", cfg.MongoDatabaseName)
	return catalogService
}
