package main

import (
	"medbook/internal/reservations/handler"
	"medbook/internal/reservations/repository"
	"medbook/internal/reservations/service"
	"medbook/internal/reservations/validator"
	"medbook/pkg/app"
	"medbook/pkg/auth"
	"medbook/pkg/config"
	"medbook/pkg/kafka"
	kafka_config "medbook/pkg/kafka/config"
	"medbook/pkg/sealer"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Reservations service")
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	publisher := kafka.NewProducer(
		kafka_config.Load(),
		cfg.ReservationEventsTopic,
		cfg.ReservationEventsDLQ,
		cfg.Log,
	)
	defer publisher.Close()

	reservationService := initServices(cfg, publisher)
	reservationHandler := handler.NewReservationHandler(
		reservationService,
		sealer.New(cfg.BookingLinkSecret),
		cfg.Log,
	)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, reservationHandler, app.Options{
		TokenManager:   auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTokenTTL),
		PublicPrefixes: []string{"/api/v1/public/"},
	})
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher service.EventPublisher) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	holdRepo := repository.NewSlotHoldRepository(cfg)
	catalogReader := repository.NewCatalogReader(cfg)

	reservationService := service.NewReservationService(
		reservationRepo,
		holdRepo,
		catalogReader,
		reservationValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
