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

	reservationserrors "medbook/internal/reservations/errors"
	"medbook/pkg/config"
	mongotx "medbook/pkg/db/mongo"
	"medbook/pkg/model"
)

const (
	CollectionName = "Reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindOverlapping(ctx context.Context, specialistID string, start, end time.Time) ([]*model.Reservation, error)
	FindByClient(ctx context.Context, clientID string, limit int, offset int64) ([]*model.Reservation, error)
	CountByClient(ctx context.Context, clientID string) (int64, error)
	FindByBusiness(ctx context.Context, businessID string, specialistID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Reservation, error)
	CountByBusiness(ctx context.Context, businessID string, specialistID string, startTime, endTime *time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus, cancelReason string) error
	FindDueForReminder(ctx context.Context, windowStart, windowEnd time.Time, limit int) ([]*model.Reservation, error)
	MarkReminderSent(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// inside a transaction the original context is returned with a no-op cancel.
func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	reservation.CreatedAt = now
	reservation.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	var reservation model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

// FindOverlapping returns blocking reservations for a specialist whose
// [start_time, end_time) interval intersects [start, end). Only non-terminal
// statuses block a slot.
func (r *mongoReservationRepository) FindOverlapping(ctx context.Context, specialistID string, start, end time.Time) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"specialist_id": specialistID,
		"status":        bson.M{"$in": config.NonTerminalStatuses()},
		"start_time":    bson.M{"$lt": end},
		"end_time":      bson.M{"$gt": start},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) FindByClient(ctx context.Context, clientID string, limit int, offset int64) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"client_id": clientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations by client: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) CountByClient(ctx context.Context, clientID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"client_id": clientID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations by client: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) FindByBusiness(
	ctx context.Context,
	businessID string,
	specialistID string,
	startTime, endTime *time.Time,
	limit int, offset int64,
) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := r.buildSearchFilter(businessID, specialistID, startTime, endTime)

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) CountByBusiness(
	ctx context.Context,
	businessID string,
	specialistID string,
	startTime, endTime *time.Time,
) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := r.buildSearchFilter(businessID, specialistID, startTime, endTime)

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations by search: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) buildSearchFilter(businessID string, specialistID string, startTime, endTime *time.Time) bson.M {
	filter := bson.M{
		"business_id": businessID,
	}
	if specialistID != "" {
		filter["specialist_id"] = specialistID
	}

	if startTime != nil || endTime != nil {
		timeFilters := bson.M{}
		if startTime != nil && endTime != nil {
			timeFilters = bson.M{
				"start_time": bson.M{"$lt": *endTime},
				"end_time":   bson.M{"$gt": *startTime},
			}
		} else if startTime != nil {
			timeFilters = bson.M{
				"end_time": bson.M{"$gt": *startTime},
			}
		} else if endTime != nil {
			timeFilters = bson.M{
				"start_time": bson.M{"$lt": *endTime},
			}
		}

		filter["$and"] = []bson.M{timeFilters}
	}

	return filter
}

// UpdateStatus performs a compare-and-set: the update only applies when the
// stored status still equals fromStatus. A concurrent transition surfaces as
// ErrStatusChanged rather than silently overwriting.
func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus, cancelReason string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"status":     toStatus,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if cancelReason != "" {
		set["cancellation_reason"] = cancelReason
	}

	filter := bson.M{"_id": objectID, "status": fromStatus}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if countErr == nil && count == 0 {
			return reservationserrors.ErrNotFound
		}
		return reservationserrors.ErrStatusChanged
	}

	return nil
}

// FindDueForReminder returns confirmed reservations starting inside the
// window that have not been reminded yet.
func (r *mongoReservationRepository) FindDueForReminder(ctx context.Context, windowStart, windowEnd time.Time, limit int) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":        config.Confirmed,
		"reminder_sent": false,
		"start_time": bson.M{
			"$gte": windowStart,
			"$lt":  windowEnd,
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations due for reminder: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) MarkReminderSent(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"reminder_sent": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationserrors.ErrNotFound
	}
	return nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
