package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medbook/pkg/config"
	"medbook/pkg/model"
)

// SlotHoldRepository provides operations for advisory slot locks. A TTL index
// on expires_at reaps holds leaked by crashed processes.
type SlotHoldRepository interface {
	Create(ctx context.Context, hold *model.SlotHold) (*model.SlotHold, error)
	Delete(ctx context.Context, holdID string) error
}

type mongoSlotHoldRepository struct {
	collection *mongo.Collection
}

func NewSlotHoldRepository(cfg *config.Config) SlotHoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotHoldRepository{
		collection: db.Collection("Slot_holds"),
	}
}

// Returns duplicate key error if a hold for the same slot already exists
func (r *mongoSlotHoldRepository) Create(ctx context.Context, hold *model.SlotHold) (*model.SlotHold, error) {
	hold.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, hold)
	if err != nil {
		return nil, err
	}

	return hold, nil
}

func (r *mongoSlotHoldRepository) Delete(ctx context.Context, holdID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": holdID})
	return err
}
