package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medbook/internal/migrations/mongo/validators"
	"medbook/pkg/config"
)

var (
	// The partial unique index is the storage-level backstop for double
	// bookings: only pending and confirmed reservations participate, so a
	// cancelled slot can be rebooked at the same start time.
	ReservationsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "specialist_id", Value: 1},
				{Key: "start_time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []string{config.Pending, config.Confirmed}},
				}),
		},
		{Keys: bson.D{
			{Key: "specialist_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "client_id", Value: 1},
			{Key: "start_time", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "business_id", Value: 1},
			{Key: "start_time", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "reminder_sent", Value: 1},
			{Key: "start_time", Value: 1},
		}},
	}

	// TTL cleanup: holds expire on their own if a crashed booking attempt
	// never releases them.
	SlotHoldsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	UsersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "role", Value: 1}}},
	}

	ServicesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "active", Value: 1}}},
		{
			Keys:    bson.D{{Key: "business_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	SpecialistsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "active", Value: 1}}},
		{
			Keys:    bson.D{{Key: "business_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	ClinicalRecordsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "business_id", Value: 1},
			{Key: "client_id", Value: 1},
			{Key: "created_at", Value: -1},
		}},
		{Keys: bson.D{{Key: "reservation_id", Value: 1}}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running MedBook Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Businesses": {
			Validator: validators.BusinessValidator,
		},
		"Services": {
			Indexes:   ServicesIndexes,
			Validator: validators.ServiceValidator,
		},
		"Specialists": {
			Indexes:   SpecialistsIndexes,
			Validator: validators.SpecialistValidator,
		},
		"Users": {
			Indexes:   UsersIndexes,
			Validator: validators.UserValidator,
		},
		"Reservations": {
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
		"Slot_holds": {
			Indexes:   SlotHoldsIndexes,
			Validator: validators.SlotHoldValidator,
		},
		"Clinical_records": {
			Indexes:   ClinicalRecordsIndexes,
			Validator: validators.ClinicalRecordValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if len(def.Indexes) == 0 {
			continue
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
