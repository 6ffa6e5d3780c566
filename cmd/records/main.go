package main

import (
	"medbook/internal/records/handler"
	"medbook/internal/records/repository"
	"medbook/internal/records/service"
	"medbook/internal/records/validator"
	"medbook/pkg/app"
	"medbook/pkg/auth"
	"medbook/pkg/config"
)

const ServiceName = "records"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Clinical Records service")
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	recordService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewRecordHandler(recordService, cfg.Log), app.Options{
		TokenManager: auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTokenTTL),
	})
	serverApp.Run()
}

func initServices(cfg *config.Config) service.RecordService {
	recordValidator := validator.NewRecordValidator(cfg.Log)
	recordRepo := repository.NewMongoRecordRepository(cfg)

	recordService := service.NewRecordService(
		recordRepo,
		recordValidator,
		cfg,
	)

	cfg.Log.Info("Clinical record service initialized", "database", cfg.MongoDatabaseName)
	return recordService
}
