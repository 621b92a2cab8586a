package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
	"github.com/sekhonkennels/kennel-portal/internal/models"
)

// UserStore persists admin accounts. Usernames are stored lowercased;
// the original casing lives in display_username.
type UserStore struct {
	pool *pgxpool.Pool
}

func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, display_username)
		 VALUES (lower($1), $2, $1)
		 RETURNING id, username, password_hash, display_username, created_at, updated_at`,
		username, passwordHash).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.DisplayUsername,
			&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, display_username, created_at, updated_at
		 FROM users WHERE username = lower($1)`, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.DisplayUsername,
			&user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}
