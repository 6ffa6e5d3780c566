package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	reservationserrors "medbook/internal/reservations/errors"
	"medbook/pkg/config"
	"medbook/pkg/model"
)

// CatalogReader gives the booking engine read access to the catalog
// collections it must consult before committing a reservation. Writes to
// these collections belong to the catalog service.
type CatalogReader interface {
	FindBusinessByID(ctx context.Context, id string) (*model.Business, error)
	FindServiceByID(ctx context.Context, id string) (*model.Service, error)
	FindSpecialistByID(ctx context.Context, id string) (*model.Specialist, error)
	FindUserByID(ctx context.Context, id string) (*model.User, error)
}

type mongoCatalogReader struct {
	cfg *config.Config
	db  *mongo.Database
}

func NewCatalogReader(cfg *config.Config) CatalogReader {
	return &mongoCatalogReader{
		cfg: cfg,
		db:  cfg.Client.Mongo.Database(cfg.MongoDatabaseName),
	}
}

func (r *mongoCatalogReader) FindBusinessByID(ctx context.Context, id string) (*model.Business, error) {
	var business model.Business
	if err := r.findByID(ctx, "Businesses", id, &business); err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *mongoCatalogReader) FindServiceByID(ctx context.Context, id string) (*model.Service, error) {
	var service model.Service
	if err := r.findByID(ctx, "Services", id, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *mongoCatalogReader) FindSpecialistByID(ctx context.Context, id string) (*model.Specialist, error) {
	var specialist model.Specialist
	if err := r.findByID(ctx, "Specialists", id, &specialist); err != nil {
		return nil, err
	}
	return &specialist, nil
}

func (r *mongoCatalogReader) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.findByID(ctx, "Users", id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *mongoCatalogReader) findByID(ctx context.Context, collection, id string, out any) error {
	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ReadTimeout)
		defer cancel()
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	err = r.db.Collection(collection).FindOne(ctx, bson.M{"_id": objectID}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return reservationserrors.ErrNotFound
		}
		return fmt.Errorf("failed to find %s document: %w", collection, err)
	}
	return nil
}
