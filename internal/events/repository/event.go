package repository

import (
	"context"
	"fmt"
	"hitcounter/pkg/config"
	"hitcounter/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	FieldTimestamp = "timestamp"
)

type mongoEventRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// EventRepository is append-only: one insert per ping, and a time-window
// read for reporting. Nothing is ever updated or deleted.
type EventRepository interface {
	Insert(ctx context.Context, ev *model.Event) error
	FindSince(ctx context.Context, since time.Time) ([]bson.D, error)
}

func NewMongoEventRepository(cfg *config.Config, client *mongo.Client) EventRepository {
	return &mongoEventRepository{
		cfg:        cfg,
		collection: client.Database(cfg.MongoDatabaseName).Collection(cfg.MongoCollection),
	}
}

// withTimeout applies timeout unless ctx already expires sooner.
func (r *mongoEventRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoEventRepository) Insert(ctx context.Context, ev *model.Event) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, ev)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		ev.ID = oid.Hex()
	}

	return nil
}

// FindSince returns raw documents with timestamp >= since, newest first.
// Documents come back as stored, so fields written by older releases are
// reported too. The comparison is lexical on the ISO-8601 string.
func (r *mongoEventRepository) FindSince(ctx context.Context, since time.Time) ([]bson.D, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{FieldTimestamp: bson.M{"$gte": model.FormatTimestamp(since)}}
	opts := options.Find().SetSort(bson.D{{Key: FieldTimestamp, Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []bson.D{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	return docs, nil
}
