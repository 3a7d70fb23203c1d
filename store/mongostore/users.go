package mongostore

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-ordering/models"
	"food-ordering/store"
)

func (s *Store) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": uid})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"emailLower": strings.ToLower(email)})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var d userDoc
	if err := s.coll(store.CollectionUsers).FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	u := d.model()
	return &u, nil
}

func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	d := userDoc{
		ID:           u.ID,
		Email:        u.Email,
		EmailLower:   strings.ToLower(u.Email),
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
	_, err := s.coll(store.CollectionUsers).ReplaceOne(ctx, bson.M{"_id": u.ID}, d, options.Replace().SetUpsert(true))
	return err
}
