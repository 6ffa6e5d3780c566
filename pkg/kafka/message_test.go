package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

func TestNewMessage(t *testing.T) {
	event := ReservationEvent{
		EventType:     EventReservationCreated,
		ReservationID: "64a000000000000000000001",
		ClientID:      "64a000000000000000000002",
		Status:        "pending",
		StartTime:     time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}

	msg, err := NewMessage(event)
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}

	if string(msg.Key) != event.ReservationID {
		t.Errorf("message key = %q, want reservation ID", msg.Key)
	}
	if got := HeaderValue(msg, HeaderEventType); got != EventReservationCreated {
		t.Errorf("event-type header = %q", got)
	}
	if HeaderValue(msg, HeaderEventID) == "" {
		t.Error("event-id header not set")
	}
	if HeaderValue(msg, HeaderOccurredAt) == "" {
		t.Error("occurred-at header not set")
	}

	parsed, err := ParseEvent(msg)
	if err != nil {
		t.Fatalf("ParseEvent failed: %v", err)
	}
	if parsed.EventType != event.EventType || parsed.ReservationID != event.ReservationID {
		t.Errorf("round trip lost identity: %+v", parsed)
	}
	if !parsed.StartTime.Equal(event.StartTime) {
		t.Errorf("start time = %v, want %v", parsed.StartTime, event.StartTime)
	}
	if parsed.OccurredAt.IsZero() {
		t.Error("occurred-at not defaulted on build")
	}
}

func TestNewMessageRequiresIdentity(t *testing.T) {
	if _, err := NewMessage(ReservationEvent{ReservationID: "64a000000000000000000001"}); err == nil {
		t.Error("expected error for missing event type")
	}
	if _, err := NewMessage(ReservationEvent{EventType: EventReservationCreated}); err == nil {
		t.Error("expected error for missing reservation ID")
	}
}

func TestParseEventFallsBackToHeader(t *testing.T) {
	msg := kafkago.Message{
		Value: []byte(`{"reservation_id":"64a000000000000000000001"}`),
		Headers: []kafkago.Header{
			{Key: HeaderEventType, Value: []byte(EventReservationReminder)},
		},
	}

	event, err := ParseEvent(msg)
	if err != nil {
		t.Fatalf("ParseEvent failed: %v", err)
	}
	if event.EventType != EventReservationReminder {
		t.Errorf("event type = %q, want header fallback", event.EventType)
	}
}

func TestParseEventRejectsBadPayload(t *testing.T) {
	if _, err := ParseEvent(kafkago.Message{Value: []byte("{not json")}); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestSetHeaderReplacesInPlace(t *testing.T) {
	msg := kafkago.Message{
		Headers: []kafkago.Header{{Key: HeaderRetryCount, Value: []byte("1")}},
	}

	setHeader(&msg, HeaderRetryCount, "2")
	if len(msg.Headers) != 1 {
		t.Fatalf("header duplicated, %d headers", len(msg.Headers))
	}
	if got := HeaderValue(msg, HeaderRetryCount); got != "2" {
		t.Errorf("retry-count = %q, want 2", got)
	}

	setHeader(&msg, HeaderFailureReason, "boom")
	if got := HeaderValue(msg, HeaderFailureReason); got != "boom" {
		t.Errorf("failure-reason = %q", got)
	}
}
