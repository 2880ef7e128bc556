// Package auditlog persists reconcile run audit entries to MongoDB.
// The run log is append-only operational history kept outside the
// transactional Postgres store.
package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/coffeetrade/backend/internal/application/reconcile"
	"github.com/coffeetrade/backend/internal/infrastructure/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const runLogCollection = "batch_resync_runs"

// MongoRunLogStore implements reconcile.RunLogStore using MongoDB
type MongoRunLogStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoRunLogStore connects to MongoDB and returns a run log store
func NewMongoRunLogStore(cfg *config.MongoConfig) (*MongoRunLogStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = runLogCollection
	}

	return &MongoRunLogStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(collection),
	}, nil
}

// NewMongoRunLogStoreWithClient creates a store over an existing client
func NewMongoRunLogStoreWithClient(client *mongo.Client, database string) *MongoRunLogStore {
	return &MongoRunLogStore{
		client:     client,
		collection: client.Database(database).Collection(runLogCollection),
	}
}

// Append inserts a run log entry
func (s *MongoRunLogStore) Append(ctx context.Context, entry reconcile.RunLogEntry) error {
	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append run log entry: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent run entries, newest first
func (s *MongoRunLogStore) RecentRuns(ctx context.Context, limit int64) ([]reconcile.RunLogEntry, error) {
	opts := options.Find().
		SetSort(map[string]interface{}{"ran_at": -1}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, map[string]interface{}{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query run log: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []reconcile.RunLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode run log entries: %w", err)
	}
	return entries, nil
}

// Close disconnects the MongoDB client
func (s *MongoRunLogStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ reconcile.RunLogStore = (*MongoRunLogStore)(nil)
