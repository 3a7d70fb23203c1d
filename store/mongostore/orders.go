package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-ordering/models"
	"food-ordering/store"
)

// CreateOrder assigns an ID when the order has none.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	_, err := s.coll(store.CollectionOrders).InsertOne(ctx, newOrderDoc(o))
	return err
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var d orderDoc
	if err := s.coll(store.CollectionOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	o := d.model()
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	query := orderQuery(filter)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.coll(store.CollectionOrders).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	orders := make([]models.Order, len(docs))
	for i, d := range docs {
		orders[i] = d.model()
	}
	return orders, nil
}

func orderQuery(filter store.OrderFilter) bson.M {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	if filter.IDs != nil {
		query["_id"] = bson.M{"$in": filter.IDs}
	}
	if filter.Unpaid {
		query["isPaid"] = bson.M{"$ne": true}
	}
	return query
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return s.updateByID(ctx, store.CollectionOrders, id, bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": time.Now().UTC(),
	}})
}

func (s *Store) SetOrderPaid(ctx context.Context, id string, paid bool) error {
	return s.updateByID(ctx, store.CollectionOrders, id, bson.M{"$set": bson.M{
		"isPaid":    paid,
		"updatedAt": time.Now().UTC(),
	}})
}
