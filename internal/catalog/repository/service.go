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

const ServiceCollection = "Services"

type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindByBusiness(ctx context.Context, businessID string, limit int, offset int64) ([]*model.Service, error)
	CountByBusiness(ctx context.Context, businessID string) (int64, error)
	Update(ctx context.Context, id string, service *model.Service) error
}

type mongoServiceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoServiceRepository(cfg *config.Config) ServiceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoServiceRepository{
		cfg:        cfg,
		collection: db.Collection(ServiceCollection),
	}
}

func (r *mongoServiceRepository) Create(ctx context.Context, service *model.Service) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	service.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, service)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return catalogerrors.ErrDuplicateName
		}
		return fmt.Errorf("failed to create service: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		service.ID = oid.Hex()
	}
	return nil
}

func (r *mongoServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var service model.Service
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&service)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}

	return &service, nil
}

func (r *mongoServiceRepository) FindByBusiness(ctx context.Context, businessID string, limit int, offset int64) ([]*model.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"business_id": businessID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*model.Service
	if err = cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}

	return services, nil
}

func (r *mongoServiceRepository) CountByBusiness(ctx context.Context, businessID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"business_id": businessID})
	if err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	return count, nil
}

func (r *mongoServiceRepository) Update(ctx context.Context, id string, service *model.Service) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":         service.Name,
			"duration_min": service.DurationMin,
			"price":        service.Price,
			"active":       service.Active,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if result.MatchedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}
