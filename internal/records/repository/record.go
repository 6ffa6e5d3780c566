package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	recordserrors "medbook/internal/records/errors"
	"medbook/pkg/config"
	"medbook/pkg/model"
)

const CollectionName = "Clinical_records"

type RecordRepository interface {
	Create(ctx context.Context, record *model.ClinicalRecord) error
	FindByID(ctx context.Context, id string) (*model.ClinicalRecord, error)
	FindByClient(ctx context.Context, businessID, clientID string, limit int, offset int64) ([]*model.ClinicalRecord, error)
	CountByClient(ctx context.Context, businessID, clientID string) (int64, error)
	Update(ctx context.Context, id string, record *model.ClinicalRecord) error
}

type mongoRecordRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRecordRepository(cfg *config.Config) RecordRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRecordRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRecordRepository) Create(ctx context.Context, record *model.ClinicalRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	record.CreatedAt = now
	record.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create clinical record: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRecordRepository) FindByID(ctx context.Context, id string) (*model.ClinicalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", recordserrors.ErrInvalidID, id)
	}

	var record model.ClinicalRecord
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, recordserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find clinical record: %w", err)
	}

	return &record, nil
}

func (r *mongoRecordRepository) FindByClient(ctx context.Context, businessID, clientID string, limit int, offset int64) ([]*model.ClinicalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	filter := bson.M{"business_id": businessID, "client_id": clientID}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find clinical records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.ClinicalRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode clinical records: %w", err)
	}

	return records, nil
}

func (r *mongoRecordRepository) CountByClient(ctx context.Context, businessID, clientID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"business_id": businessID, "client_id": clientID})
	if err != nil {
		return 0, fmt.Errorf("failed to count clinical records: %w", err)
	}
	return count, nil
}

func (r *mongoRecordRepository) Update(ctx context.Context, id string, record *model.ClinicalRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", recordserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"title":      record.Title,
			"notes":      record.Notes,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update clinical record: %w", err)
	}
	if result.MatchedCount == 0 {
		return recordserrors.ErrNotFound
	}
	return nil
}
