package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// deviceStorage is one device's documents in the deviceStorage collection.
type deviceStorage struct {
	coll     *mongo.Collection
	deviceID string
}

func (d *deviceStorage) filter(key string) bson.M {
	return bson.M{"deviceId": d.deviceID, "key": key}
}

func (d *deviceStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var doc deviceItemDoc
	if err := d.coll.FindOne(ctx, d.filter(key)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, err
	}
	return doc.Value, true, nil
}

func (d *deviceStorage) SetItem(ctx context.Context, key, value string) error {
	update := bson.M{"$set": bson.M{"value": value, "updatedAt": time.Now().UTC()}}
	_, err := d.coll.UpdateOne(ctx, d.filter(key), update, options.Update().SetUpsert(true))
	return err
}

func (d *deviceStorage) RemoveItem(ctx context.Context, key string) error {
	_, err := d.coll.DeleteOne(ctx, d.filter(key))
	return err
}
