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

	catalogerrors "medbook/internal/catalog/errors"
	"medbook/pkg/config"
	"medbook/pkg/model"
)

const SpecialistCollection = "Specialists"

type SpecialistRepository interface {
	Create(ctx context.Context, specialist *model.Specialist) error
	FindByID(ctx context.Context, id string) (*model.Specialist, error)
	FindByBusiness(ctx context.Context, businessID string, limit int, offset int64) ([]*model.Specialist, error)
	CountByBusiness(ctx context.Context, businessID string) (int64, error)
	Update(ctx context.Context, id string, specialist *model.Specialist) error
}

type mongoSpecialistRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSpecialistRepository(cfg *config.Config) SpecialistRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpecialistRepository{
		cfg:        cfg,
		collection: db.Collection(SpecialistCollection),
	}
}

func (r *mongoSpecialistRepository) Create(ctx context.Context, specialist *model.Specialist) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	specialist.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, specialist)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return catalogerrors.ErrDuplicateName
		}
		return fmt.Errorf("failed to create specialist: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		specialist.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSpecialistRepository) FindByID(ctx context.Context, id string) (*model.Specialist, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var specialist model.Specialist
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&specialist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find specialist: %w", err)
	}

	return &specialist, nil
}

func (r *mongoSpecialistRepository) FindByBusiness(ctx context.Context, businessID string, limit int, offset int64) ([]*model.Specialist, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"business_id": businessID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find specialists: %w", err)
	}
	defer cursor.Close(ctx)

	var specialists []*model.Specialist
	if err = cursor.All(ctx, &specialists); err != nil {
		return nil, fmt.Errorf("failed to decode specialists: %w", err)
	}

	return specialists, nil
}

func (r *mongoSpecialistRepository) CountByBusiness(ctx context.Context, businessID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"business_id": businessID})
	if err != nil {
		return 0, fmt.Errorf("failed to count specialists: %w", err)
	}
	return count, nil
}

func (r *mongoSpecialistRepository) Update(ctx context.Context, id string, specialist *model.Specialist) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":         specialist.Name,
			"start_of_day": specialist.StartOfDay,
			"end_of_day":   specialist.EndOfDay,
			"working_days": specialist.WorkingDays,
			"time_zone":    specialist.TimeZone,
			"active":       specialist.Active,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update specialist: %w", err)
	}
	if result.MatchedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}
