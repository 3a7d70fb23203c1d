package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-ordering/models"
	"food-ordering/store"
)

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll(store.CollectionCategories).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	cats := make([]models.Category, len(docs))
	for i, d := range docs {
		cats[i] = models.Category{ID: d.ID, Name: d.Name}
	}
	return cats, nil
}

func (s *Store) ListMenuItems(ctx context.Context, filter store.MenuFilter) ([]models.MenuItem, error) {
	query := bson.M{}
	if filter.CategoryID != "" {
		query["categoryId"] = filter.CategoryID
	}
	if filter.AvailableOnly {
		query["isAvailable"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "categoryId", Value: 1}, {Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll(store.CollectionMenuItems).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []menuItemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.MenuItem, len(docs))
	for i, d := range docs {
		items[i] = d.model()
	}
	return items, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var d menuItemDoc
	if err := s.coll(store.CollectionMenuItems).FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	item := d.model()
	return &item, nil
}

func (s *Store) SetMenuItemAvailability(ctx context.Context, id string, available bool) error {
	return s.updateByID(ctx, store.CollectionMenuItems, id, bson.M{"$set": bson.M{"isAvailable": available}})
}

// SetRemainingServings unsets the field for the capacity default so readers
// fall back to servesCount.
func (s *Store) SetRemainingServings(ctx context.Context, id string, remaining models.Servings) error {
	update := bson.M{"$unset": bson.M{"remainingServings": ""}}
	if p := remaining.Ptr(); p != nil {
		update = bson.M{"$set": bson.M{"remainingServings": *p}}
	}
	return s.updateByID(ctx, store.CollectionMenuItems, id, update)
}
