package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const mongoCollectionName = "batch_records"

// MongoStore persists batch records as documents, for deployments that
// already run MongoDB rather than a SQL database. It implements the same
// Store interface as GormStore so callers pick a backend purely from
// config.StorageConfig.Driver.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to dsn and returns a MongoStore backed by
// database dbName. The batch_records collection is created implicitly on
// first write; a unique index on batch_id is ensured at startup.
func NewMongoStore(ctx context.Context, dsn, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("storage: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("storage: mongo ping: %w", err)
	}

	coll := client.Database(dbName).Collection(mongoCollectionName)

	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "batch_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("storage: mongo ensure index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Write(ctx context.Context, rec BatchRecord) error {
	_, err := s.coll.InsertOne(ctx, rec)
	return err
}

func (s *MongoStore) Get(ctx context.Context, batchID string) (BatchRecord, error) {
	var rec BatchRecord
	err := s.coll.FindOne(ctx, bson.D{{Key: "batch_id", Value: batchID}}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return BatchRecord{}, ErrNotFound
		}
		return BatchRecord{}, err
	}
	return rec, nil
}

func (s *MongoStore) Recent(ctx context.Context, limit int) ([]BatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []BatchRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
