package model

import (
	"time"
)

// Reservation is one booked or requested appointment slot. For a given
// specialist, reservations in pending or confirmed status must have pairwise
// non-overlapping [start, end) intervals; terminal statuses stop blocking.
type Reservation struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ClientID     string    `json:"client_id" bson:"client_id" validate:"required,mongodb"`
	BusinessID   string    `json:"business_id" bson:"business_id" validate:"required,mongodb"`
	SpecialistID string    `json:"specialist_id" bson:"specialist_id" validate:"required,mongodb"`
	ServiceID    string    `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	StartTime    time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime      time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed no_show"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=1000"`
	CancelReason string    `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
	ReminderSent bool      `json:"reminder_sent" bson:"reminder_sent"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// ReservationRequest is the booking input: the end time is derived from the
// service duration, never supplied by the caller.
type ReservationRequest struct {
	ClientID     string    `json:"client_id" validate:"required,mongodb"`
	BusinessID   string    `json:"business_id" validate:"required,mongodb"`
	SpecialistID string    `json:"specialist_id" validate:"required,mongodb"`
	ServiceID    string    `json:"service_id" validate:"required,mongodb"`
	StartTime    time.Time `json:"start_time" validate:"required"`
	Notes        string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type StatusUpdate struct {
	Status       string `json:"status" validate:"required,oneof=pending confirmed cancelled completed no_show"`
	CancelReason string `json:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
}

// Availability is the §availability read model: candidate start times for one
// specialist/service/date, recomputed fresh on every call.
type Availability struct {
	SpecialistID    string      `json:"specialist_id"`
	ServiceID       string      `json:"service_id"`
	Date            string      `json:"date"`
	SlotDurationMin int         `json:"slot_duration_min"`
	AvailableStarts []time.Time `json:"available_starts"`
}

// ReservationDetail joins display data onto a reservation for read-side
// consumers; it carries no scheduling semantics.
type ReservationDetail struct {
	Reservation    Reservation `json:"reservation"`
	ClientName     string      `json:"client_name,omitempty"`
	SpecialistName string      `json:"specialist_name,omitempty"`
	ServiceName    string      `json:"service_name,omitempty"`
	BusinessName   string      `json:"business_name,omitempty"`
}
