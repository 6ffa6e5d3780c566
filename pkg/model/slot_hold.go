package model

import "time"

// SlotHold is an advisory lock for serializing concurrent booking attempts on
// the same specialist/start slot. The _id encodes the slot coordinates, so a
// second insert for the same slot fails with a duplicate key error.
type SlotHold struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
