package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"

	"food-ordering/models"
	"food-ordering/store"
)

func (s *Store) ListTables(ctx context.Context) ([]models.Table, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, number, capacity, status, room_id FROM tables ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity, &t.Status, &t.RoomID); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *Store) GetTableByNumber(ctx context.Context, number int) (*models.Table, error) {
	var t models.Table
	err := s.pool.QueryRow(ctx, `
		SELECT id, number, capacity, status, room_id FROM tables WHERE number = $1`,
		number,
	).Scan(&t.ID, &t.Number, &t.Capacity, &t.Status, &t.RoomID)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) UpdateTableStatus(ctx context.Context, id string, status models.Occupancy) error {
	tag, err := s.pool.Exec(ctx, `UPDATE tables SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListRooms(ctx context.Context) ([]models.Room, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, number, capacity, status, occupied_tables FROM rooms ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *r)
	}
	return rooms, rows.Err()
}

func (s *Store) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, number, capacity, status, occupied_tables FROM rooms WHERE id = $1`, id)
	r, err := scanRoom(row)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func (s *Store) GetRoomByNumber(ctx context.Context, number int) (*models.Room, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, number, capacity, status, occupied_tables FROM rooms WHERE number = $1`, number)
	r, err := scanRoom(row)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func (s *Store) UpdateRoom(ctx context.Context, r *models.Room) error {
	occupied := make([]int32, len(r.OccupiedTables))
	for i, n := range r.OccupiedTables {
		occupied[i] = int32(n)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE rooms SET status = $1, occupied_tables = $2 WHERE id = $3`,
		r.Status, occupied, r.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	var (
		r        models.Room
		occupied []int32
	)
	if err := row.Scan(&r.ID, &r.Number, &r.Capacity, &r.Status, &occupied); err != nil {
		return nil, err
	}
	r.OccupiedTables = make([]int, len(occupied))
	for i, n := range occupied {
		r.OccupiedTables[i] = int(n)
	}
	return &r, nil
}
