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

const BusinessCollection = "Businesses"

type BusinessRepository interface {
	Create(ctx context.Context, business *model.Business) error
	FindByID(ctx context.Context, id string) (*model.Business, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Business, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, business *model.Business) error
}

type mongoBusinessRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBusinessRepository(cfg *config.Config) BusinessRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBusinessRepository{
		cfg:        cfg,
		collection: db.Collection(BusinessCollection),
	}
}

func (r *mongoBusinessRepository) Create(ctx context.Context, business *model.Business) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	business.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, business)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		business.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBusinessRepository) FindByID(ctx context.Context, id string) (*model.Business, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var business model.Business
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&business)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find business: %w", err)
	}

	return &business, nil
}

func (r *mongoBusinessRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Business, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find businesses: %w", err)
	}
	defer cursor.Close(ctx)

	var businesses []*model.Business
	if err = cursor.All(ctx, &businesses); err != nil {
		return nil, fmt.Errorf("failed to decode businesses: %w", err)
	}

	return businesses, nil
}

func (r *mongoBusinessRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count businesses: %w", err)
	}
	return count, nil
}

func (r *mongoBusinessRepository) Update(ctx context.Context, id string, business *model.Business) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":        business.Name,
			"phone":       business.Phone,
			"website":     business.Website,
			"specialties": business.Specialties,
			"time_zone":   business.TimeZone,
			"active":      business.Active,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}
	if result.MatchedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}
