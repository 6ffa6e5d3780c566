package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"medbook/internal/reservations/repository"
	reservationservice "medbook/internal/reservations/service"
	"medbook/pkg/config"
	"medbook/pkg/kafka"
)

// Worker periodically scans for confirmed reservations entering the reminder
// lead window and publishes a reminder event for each, exactly once. Redis
// SETNX provides cross-instance dedupe on top of the reminder_sent flag, so
// running several reminder workers is safe.
type Worker struct {
	repo      repository.ReservationRepository
	redis     *redis.Client
	publisher reservationservice.EventPublisher
	cfg       *config.Config
}

const scanBatchSize = 100

func NewWorker(
	repo repository.ReservationRepository,
	redisClient *redis.Client,
	publisher reservationservice.EventPublisher,
	cfg *config.Config,
) *Worker {
	return &Worker{
		repo:      repo,
		redis:     redisClient,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Run scans on a fixed interval until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.cfg.Log.Info("Reminder worker started",
		"lead_window", w.cfg.ReminderLeadWindow,
		"scan_interval", w.cfg.ReminderScanInterval,
	)

	ticker := time.NewTicker(w.cfg.ReminderScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.cfg.Log.Info("Reminder worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.Scan(ctx); err != nil {
				w.cfg.Log.Error("Reminder scan failed", "error", err)
			}
		}
	}
}

// Scan processes one reminder window pass.
func (w *Worker) Scan(ctx context.Context) error {
	now := time.Now().UTC()
	windowEnd := now.Add(w.cfg.ReminderLeadWindow)

	due, err := w.repo.FindDueForReminder(ctx, now, windowEnd, scanBatchSize)
	if err != nil {
		return fmt.Errorf("find due reservations: %w", err)
	}

	sent := 0
	for _, reservation := range due {
		ok, err := w.claim(ctx, reservation.ID)
		if err != nil {
			w.cfg.Log.Error("Failed to claim reminder", "reservation_id", reservation.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}

		event := kafka.ReservationEvent{
			EventType:     kafka.EventReservationReminder,
			ReservationID: reservation.ID,
			ClientID:      reservation.ClientID,
			BusinessID:    reservation.BusinessID,
			SpecialistID:  reservation.SpecialistID,
			ServiceID:     reservation.ServiceID,
			StartTime:     reservation.StartTime,
			EndTime:       reservation.EndTime,
			Status:        reservation.Status,
			OccurredAt:    now,
		}
		if err := w.publisher.Publish(ctx, event); err != nil {
			w.cfg.Log.Error("Failed to publish reminder event", "reservation_id", reservation.ID, "error", err)
			continue
		}

		if err := w.repo.MarkReminderSent(ctx, reservation.ID); err != nil {
			w.cfg.Log.Error("Failed to mark reminder sent", "reservation_id", reservation.ID, "error", err)
			continue
		}
		sent++
	}

	if len(due) > 0 {
		w.cfg.Log.Info("Reminder scan completed", "due", len(due), "sent", sent)
	}
	return nil
}

// claim takes the cross-instance dedupe lock for one reservation's reminder.
func (w *Worker) claim(ctx context.Context, reservationID string) (bool, error) {
	if w.redis == nil {
		return true, nil
	}
	key := "reminder:" + reservationID
	return w.redis.SetNX(ctx, key, "1", w.cfg.ReminderLeadWindow).Result()
}
