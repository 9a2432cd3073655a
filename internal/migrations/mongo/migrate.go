package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hitcounter/internal/events/repository"
	"hitcounter/pkg/logger"
)

const timestampIndexName = "timestamp_desc"

// EventIndexes serve the report query: a range on timestamp, newest first.
var EventIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: repository.FieldTimestamp, Value: -1}},
		Options: options.Index().SetName(timestampIndexName),
	},
}

// RunMigration creates the events collection and its indexes. Both steps are
// idempotent. No schema validator is installed; documents are shaped by the
// service alone.
func RunMigration(ctx context.Context, client *mongo.Client, dbName, collection string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName, "collection", collection)

	if err := ensureCollection(ctx, db, collection, log); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", collection, err)
	}
	if err := ensureIndexes(ctx, db, collection, EventIndexes, log); err != nil {
		return fmt.Errorf("failed to ensure indexes for %s: %w", collection, err)
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		log.Info("Collection already exists", "collection", name)
		return nil
	}

	log.Info("Creating collection", "collection", name)
	if err := db.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("failed creating %s: %w", name, err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", created)
	return nil
}
