package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-ordering/models"
	"food-ordering/store"
)

func (s *Store) GetOrderSettings(ctx context.Context) (*models.OrderSettings, error) {
	var d orderSettingsDoc
	err := s.coll(store.CollectionSettings).FindOne(ctx, bson.M{"_id": store.SettingsOrderDoc}).Decode(&d)
	if err != nil {
		return nil, notFound(err)
	}
	return &models.OrderSettings{
		DeliveryEnabled:       d.DeliveryEnabled,
		DeliveryFee:           d.DeliveryFee,
		DefaultContainerPrice: d.DefaultContainerPrice,
	}, nil
}

func (s *Store) SaveOrderSettings(ctx context.Context, settings *models.OrderSettings) error {
	d := orderSettingsDoc{
		ID:                    store.SettingsOrderDoc,
		DeliveryEnabled:       settings.DeliveryEnabled,
		DeliveryFee:           settings.DeliveryFee,
		DefaultContainerPrice: settings.DefaultContainerPrice,
	}
	_, err := s.coll(store.CollectionSettings).ReplaceOne(ctx, bson.M{"_id": d.ID}, d, options.Replace().SetUpsert(true))
	return err
}
