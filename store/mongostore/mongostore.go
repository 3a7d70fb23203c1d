// Package mongostore keeps the service's document collections in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-ordering/devicestore"
	"food-ordering/store"
)

type Store struct {
	db *mongo.Database
}

var _ store.Store = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

func (s *Store) DeviceStorage(deviceID string) devicestore.Storage {
	return &deviceStorage{coll: s.coll(store.CollectionDeviceStorage), deviceID: deviceID}
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// EnsureIndexes creates the indexes the queries rely on. Safe to run repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		store.CollectionMenuItems: {
			{Keys: bson.D{{Key: "categoryId", Value: 1}, {Key: "name", Value: 1}}},
		},
		store.CollectionOrders: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		store.CollectionTables: {
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		store.CollectionRooms: {
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		store.CollectionUsers: {
			{Keys: bson.D{{Key: "emailLower", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		store.CollectionDeviceStorage: {
			{Keys: bson.D{{Key: "deviceId", Value: 1}, {Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for name, idx := range indexes {
		if _, err := s.coll(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

// updateByID applies update to the document with _id = id.
func (s *Store) updateByID(ctx context.Context, collection string, id any, update bson.M) error {
	res, err := s.coll(collection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
