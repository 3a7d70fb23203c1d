package pgstore

import (
	"context"

	"food-ordering/models"
)

func (s *Store) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role FROM users WHERE id = $1`,
		uid,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role FROM users WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role,
	)
	return err
}
