package model

import "time"

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=client specialist admin"`
	BusinessID   string    `json:"business_id,omitempty" bson:"business_id,omitempty" validate:"omitempty,mongodb"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Role       string `json:"role" validate:"required,oneof=client specialist admin"`
	BusinessID string `json:"business_id,omitempty" validate:"omitempty,mongodb"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
