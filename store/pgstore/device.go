package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// deviceStorage is one device's rows in device_storage.
type deviceStorage struct {
	pool     *pgxpool.Pool
	deviceID string
}

func (d *deviceStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.pool.QueryRow(ctx, `
		SELECT value FROM device_storage WHERE device_id = $1 AND key = $2`,
		d.deviceID, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (d *deviceStorage) SetItem(ctx context.Context, key, value string) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO device_storage (device_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (device_id, key) DO UPDATE SET
			value = $3,
			updated_at = now()`,
		d.deviceID, key, value,
	)
	return err
}

func (d *deviceStorage) RemoveItem(ctx context.Context, key string) error {
	_, err := d.pool.Exec(ctx, `DELETE FROM device_storage WHERE device_id = $1 AND key = $2`, d.deviceID, key)
	return err
}
