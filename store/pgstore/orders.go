package pgstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"food-ordering/models"
	"food-ordering/store"
)

const orderColumns = `id, order_type, table_number, room_number, phone, address,
	items, total, delivery_fee, status, is_paid, created_at, updated_at`

// CreateOrder assigns an ID when the order has none.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.Type, nullInt(o.TableNumber), nullInt(o.RoomNumber), o.Phone, o.Address,
		itemsJSON, o.Total, o.DeliveryFee, o.Status, o.Paid, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.IDs != nil {
		args = append(args, filter.IDs)
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.Unpaid {
		where = append(where, "NOT is_paid")
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return s.updateOrder(ctx, `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, status, id)
}

func (s *Store) SetOrderPaid(ctx context.Context, id string, paid bool) error {
	return s.updateOrder(ctx, `UPDATE orders SET is_paid = $1, updated_at = $2 WHERE id = $3`, paid, id)
}

func (s *Store) updateOrder(ctx context.Context, query string, value any, id string) error {
	tag, err := s.pool.Exec(ctx, query, value, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		o                 models.Order
		tableNum, roomNum *int
		itemsJSON         []byte
	)
	err := row.Scan(&o.ID, &o.Type, &tableNum, &roomNum, &o.Phone, &o.Address,
		&itemsJSON, &o.Total, &o.DeliveryFee, &o.Status, &o.Paid, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tableNum != nil {
		o.TableNumber = *tableNum
	}
	if roomNum != nil {
		o.RoomNumber = *roomNum
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}
	}
	return &o, nil
}

func nullInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
