package model

import (
	"medbook/pkg/config"
	"time"
)

type Business struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone       string    `json:"phone" bson:"phone" validate:"required,e164"`
	Website     string    `json:"website,omitempty" bson:"website,omitempty" validate:"omitempty,url"`
	Specialties []string  `json:"specialties" bson:"specialties" validate:"required,min=1,max=20,dive,required"`
	TimeZone    string    `json:"time_zone" bson:"time_zone" validate:"required,timezone"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type BusinessUpdate struct {
	Name        string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone       string    `json:"phone,omitempty" validate:"omitempty,e164"`
	Website     string    `json:"website,omitempty" validate:"omitempty,url"`
	Specialties *[]string `json:"specialties,omitempty" validate:"omitempty,min=1,max=20,dive,required"`
	TimeZone    string    `json:"time_zone,omitempty" validate:"omitempty,timezone"`
	Active      *bool     `json:"active,omitempty"`
}

// Service duration drives slot-length computation; inactive services are not
// bookable.
type Service struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BusinessID  string    `json:"business_id" bson:"business_id" validate:"required,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	DurationMin int       `json:"duration_min" bson:"duration_min" validate:"required,min=5,max=480"`
	Price       int64     `json:"price" bson:"price" validate:"min=0"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ServiceUpdate struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	DurationMin *int   `json:"duration_min,omitempty" validate:"omitempty,min=5,max=480"`
	Price       *int64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Active      *bool  `json:"active,omitempty"`
}

// Specialist carries the working window used to bound slot generation. An
// empty TimeZone falls back to the owning business's timezone.
type Specialist struct {
	ID          string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BusinessID  string           `json:"business_id" bson:"business_id" validate:"required,mongodb"`
	Name        string           `json:"name" bson:"name" validate:"required,min=2,max=100"`
	StartOfDay  string           `json:"start_of_day" bson:"start_of_day" validate:"required,valid_day_time"`
	EndOfDay    string           `json:"end_of_day" bson:"end_of_day" validate:"required,valid_day_time"`
	WorkingDays []config.Weekday `json:"working_days" bson:"working_days" validate:"required,min=1,max=7,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	TimeZone    string           `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	Active      bool             `json:"active" bson:"active"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type SpecialistUpdate struct {
	Name        string           `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	StartOfDay  string           `json:"start_of_day,omitempty" validate:"omitempty,valid_day_time"`
	EndOfDay    string           `json:"end_of_day,omitempty" validate:"omitempty,valid_day_time"`
	WorkingDays []config.Weekday `json:"working_days,omitempty" validate:"omitempty,min=1,max=7,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	TimeZone    string           `json:"time_zone,omitempty" validate:"omitempty,timezone"`
	Active      *bool            `json:"active,omitempty"`
}
