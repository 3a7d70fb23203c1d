package pgstore

import (
	"context"
	"encoding/json"
	"fmt"

	"food-ordering/models"
	"food-ordering/store"
)

func (s *Store) GetOrderSettings(ctx context.Context) (*models.OrderSettings, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM settings WHERE id = $1`, store.SettingsOrderDoc).Scan(&data)
	if err != nil {
		return nil, notFound(err)
	}
	var settings models.OrderSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order settings: %w", err)
	}
	return &settings, nil
}

func (s *Store) SaveOrderSettings(ctx context.Context, settings *models.OrderSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal order settings: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO settings (id, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = $2, updated_at = now()`,
		store.SettingsOrderDoc, data,
	)
	return err
}
