package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"medbook/internal/reminders"
	"medbook/internal/reservations/repository"
	"medbook/pkg/config"
	"medbook/pkg/kafka"
	kafka_config "medbook/pkg/kafka/config"
)

const JobName = "reminders"

func main() {
	cfg := config.Load(JobName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Reminder worker")
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

	worker := reminders.NewWorker(
		repository.NewMongoReservationRepository(cfg),
		cfg.Client.Redis,
		publisher,
		cfg,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Reminder worker failed", "error", err)
	}
	cfg.Log.Info("Reminder worker stopped")
}
