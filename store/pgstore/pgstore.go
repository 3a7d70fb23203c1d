// Package pgstore keeps the service's document collections in PostgreSQL.
package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"food-ordering/devicestore"
	"food-ordering/store"
)

type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close is a no-op: the pool belongs to package db.
func (s *Store) Close(context.Context) error {
	return nil
}

func (s *Store) DeviceStorage(deviceID string) devicestore.Storage {
	return &deviceStorage{pool: s.pool, deviceID: deviceID}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
