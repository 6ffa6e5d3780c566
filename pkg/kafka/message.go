package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Event types carried on the reservation events topic.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationCompleted = "reservation.completed"
	EventReservationNoShow    = "reservation.no_show"
	EventReservationReminder  = "reservation.reminder"
)

// Standard message headers.
const (
	HeaderEventType     = "event-type"
	HeaderEventID       = "event-id"
	HeaderCorrelationID = "correlation-id"
	HeaderOccurredAt    = "occurred-at"
	HeaderRetryCount    = "retry-count"
	HeaderFailureReason = "failure-reason"
)

// ReservationEvent is the payload published for every reservation
// lifecycle change. Consumers key on EventType.
type ReservationEvent struct {
	EventType      string    `json:"event_type"`
	ReservationID  string    `json:"reservation_id"`
	ClientID       string    `json:"client_id"`
	BusinessID     string    `json:"business_id"`
	SpecialistID   string    `json:"specialist_id"`
	ServiceID      string    `json:"service_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	CancelReason   string    `json:"cancel_reason,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewMessage builds a kafka message for the given event, keyed by
// reservation ID so all events for one reservation stay ordered
// within a partition.
func NewMessage(event ReservationEvent) (kafkago.Message, error) {
	if event.EventType == "" {
		return kafkago.Message{}, fmt.Errorf("event type is required")
	}
	if event.ReservationID == "" {
		return kafkago.Message{}, fmt.Errorf("reservation ID is required")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal event: %w", err)
	}

	return kafkago.Message{
		Key:   []byte(event.ReservationID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: HeaderEventType, Value: []byte(event.EventType)},
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderOccurredAt, Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}

// ParseEvent decodes a consumed message back into a ReservationEvent.
func ParseEvent(msg kafkago.Message) (ReservationEvent, error) {
	var event ReservationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return ReservationEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if event.EventType == "" {
		event.EventType = HeaderValue(msg, HeaderEventType)
	}
	return event, nil
}

// HeaderValue returns the value of the named header, or "".
func HeaderValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func setHeader(msg *kafkago.Message, key, value string) {
	for i, h := range msg.Headers {
		if h.Key == key {
			msg.Headers[i].Value = []byte(value)
			return
		}
	}
	msg.Headers = append(msg.Headers, kafkago.Header{Key: key, Value: []byte(value)})
}
