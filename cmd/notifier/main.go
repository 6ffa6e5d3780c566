package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"medbook/internal/notifier"
	"medbook/internal/reservations/repository"
	"medbook/pkg/config"
	"medbook/pkg/kafka"
	kafka_config "medbook/pkg/kafka/config"
)

const JobName = "notifier"

func main() {
	cfg := config.Load(JobName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Notifier worker")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	mailer := notifier.NewSendGridMailer(cfg.SendGridAPIKey, cfg.NotifierFromEmail, cfg.Log)
	handler := notifier.New(repository.NewCatalogReader(cfg), mailer, cfg)

	consumer := kafka.NewConsumer(
		kafka_config.Load(),
		cfg.ReservationEventsTopic,
		cfg.NotifierConsumerGroup,
		cfg.ReservationEventsDLQ,
		handler.Handle,
		cfg.Log,
	)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Notifier consumer failed", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
