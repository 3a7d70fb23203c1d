package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-ordering/models"
	"food-ordering/store"
)

var byNumber = options.Find().SetSort(bson.D{{Key: "number", Value: 1}})

func (s *Store) ListTables(ctx context.Context) ([]models.Table, error) {
	cur, err := s.coll(store.CollectionTables).Find(ctx, bson.M{}, byNumber)
	if err != nil {
		return nil, err
	}
	var docs []tableDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	tables := make([]models.Table, len(docs))
	for i, d := range docs {
		tables[i] = d.model()
	}
	return tables, nil
}

func (s *Store) GetTableByNumber(ctx context.Context, number int) (*models.Table, error) {
	var d tableDoc
	if err := s.coll(store.CollectionTables).FindOne(ctx, bson.M{"number": number}).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	t := d.model()
	return &t, nil
}

func (s *Store) UpdateTableStatus(ctx context.Context, id string, status models.Occupancy) error {
	return s.updateByID(ctx, store.CollectionTables, id, bson.M{"$set": bson.M{"status": string(status)}})
}

func (s *Store) ListRooms(ctx context.Context) ([]models.Room, error) {
	cur, err := s.coll(store.CollectionRooms).Find(ctx, bson.M{}, byNumber)
	if err != nil {
		return nil, err
	}
	var docs []roomDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	rooms := make([]models.Room, len(docs))
	for i, d := range docs {
		rooms[i] = d.model()
	}
	return rooms, nil
}

func (s *Store) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	return s.findRoom(ctx, bson.M{"_id": id})
}

func (s *Store) GetRoomByNumber(ctx context.Context, number int) (*models.Room, error) {
	return s.findRoom(ctx, bson.M{"number": number})
}

func (s *Store) findRoom(ctx context.Context, filter bson.M) (*models.Room, error) {
	var d roomDoc
	if err := s.coll(store.CollectionRooms).FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	r := d.model()
	return &r, nil
}

func (s *Store) UpdateRoom(ctx context.Context, r *models.Room) error {
	occupied := r.OccupiedTables
	if occupied == nil {
		occupied = []int{}
	}
	return s.updateByID(ctx, store.CollectionRooms, r.ID, bson.M{"$set": bson.M{
		"status":         string(r.Status),
		"occupiedTables": occupied,
	}})
}
