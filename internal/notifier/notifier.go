package notifier

import (
	"context"
	"fmt"
	"time"

	"medbook/internal/reservations/repository"
	"medbook/pkg/config"
	"medbook/pkg/kafka"
)

// Notifier turns reservation events into client-facing emails. It is wired
// as the handler of a kafka consumer; returning an error defers to the
// consumer's retry and dead-letter policy.
type Notifier struct {
	catalog repository.CatalogReader
	mailer  Mailer
	cfg     *config.Config
}

func New(catalog repository.CatalogReader, mailer Mailer, cfg *config.Config) *Notifier {
	return &Notifier{
		catalog: catalog,
		mailer:  mailer,
		cfg:     cfg,
	}
}

// Handle is the kafka.EventHandler for the reservation events topic.
func (n *Notifier) Handle(ctx context.Context, event kafka.ReservationEvent) error {
	subject, body := n.compose(ctx, event)
	if subject == "" {
		n.cfg.Log.Debug("No notification for event type", "event_type", event.EventType)
		return nil
	}

	user, err := n.catalog.FindUserByID(ctx, event.ClientID)
	if err != nil {
		return fmt.Errorf("resolve client %s: %w", event.ClientID, err)
	}
	if user.Email == "" {
		n.cfg.Log.Warn("Client has no email address, skipping notification",
			"client_id", event.ClientID,
			"event_type", event.EventType,
		)
		return nil
	}

	if err := n.mailer.Send(ctx, user.Name, user.Email, subject, body); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	n.cfg.Log.Info("Notification sent",
		"event_type", event.EventType,
		"reservation_id", event.ReservationID,
		"client_id", event.ClientID,
	)
	return nil
}

func (n *Notifier) compose(ctx context.Context, event kafka.ReservationEvent) (string, string) {
	when := event.StartTime.Format(time.RFC1123)
	where := n.businessName(ctx, event.BusinessID)

	switch event.EventType {
	case kafka.EventReservationCreated:
		return "Appointment requested",
			fmt.Sprintf("Your appointment at %s on %s has been requested and is awaiting confirmation.", where, when)
	case kafka.EventReservationConfirmed:
		return "Appointment confirmed",
			fmt.Sprintf("Your appointment at %s on %s is confirmed.", where, when)
	case kafka.EventReservationCancelled:
		body := fmt.Sprintf("Your appointment at %s on %s has been cancelled.", where, when)
		if event.CancelReason != "" {
			body += " Reason: " + event.CancelReason
		}
		return "Appointment cancelled", body
	case kafka.EventReservationReminder:
		return "Appointment reminder",
			fmt.Sprintf("Reminder: you have an appointment at %s on %s.", where, when)
	default:
		// completed / no_show generate no client email
		return "", ""
	}
}

func (n *Notifier) businessName(ctx context.Context, businessID string) string {
	business, err := n.catalog.FindBusinessByID(ctx, businessID)
	if err != nil {
		n.cfg.Log.Warn("Failed to resolve business name", "business_id", businessID, "error", err)
		return "your provider"
	}
	return business.Name
}
