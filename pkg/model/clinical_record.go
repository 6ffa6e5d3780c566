package model

import "time"

// ClinicalRecord references the patient exclusively through ClientID; no
// alternate patient field exists anywhere in the codebase.
type ClinicalRecord struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BusinessID    string    `json:"business_id" bson:"business_id" validate:"required,mongodb"`
	ClientID      string    `json:"client_id" bson:"client_id" validate:"required,mongodb"`
	SpecialistID  string    `json:"specialist_id" bson:"specialist_id" validate:"required,mongodb"`
	ReservationID string    `json:"reservation_id,omitempty" bson:"reservation_id,omitempty" validate:"omitempty,mongodb"`
	Title         string    `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Notes         string    `json:"notes" bson:"notes" validate:"required,max=10000"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type ClinicalRecordUpdate struct {
	Title string `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Notes string `json:"notes,omitempty" validate:"omitempty,max=10000"`
}
