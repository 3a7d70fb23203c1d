package pgstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"food-ordering/models"
	"food-ordering/store"
)

const menuItemColumns = `id, name, price, category_id, description, image_url,
	serves_count, remaining_servings, is_available`

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) ListMenuItems(ctx context.Context, filter store.MenuFilter) ([]models.MenuItem, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.AvailableOnly {
		where = append(where, "is_available")
	}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY category_id, name, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *Store) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id)
	item, err := scanMenuItem(row)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (s *Store) SetMenuItemAvailability(ctx context.Context, id string, available bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE menu_items SET is_available = $1, updated_at = now() WHERE id = $2`,
		available, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SetRemainingServings(ctx context.Context, id string, remaining models.Servings) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE menu_items SET remaining_servings = $1, updated_at = now() WHERE id = $2`,
		remaining.Ptr(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	var (
		m         models.MenuItem
		remaining *int
	)
	err := row.Scan(&m.ID, &m.Name, &m.Price, &m.CategoryID, &m.Description, &m.ImageURL,
		&m.ServesCount, &remaining, &m.Available)
	if err != nil {
		return nil, err
	}
	m.Remaining = models.ServingsFromPtr(remaining)
	return &m, nil
}
