// Package postgres implements the relational stores on PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sekhonkennels/kennel-portal/internal/config"
)

// Store bundles the per-entity stores sharing one connection pool.
type Store struct {
	Pool         *pgxpool.Pool
	Sessions     *SessionStore
	Users        *UserStore
	Dogs         *DogStore
	Applications *ApplicationStore
}

// Connect opens a pgx pool, verifies connectivity, and runs migrations.
func Connect(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return New(pool), nil
}

// New wraps an existing pool without migrating (used by tests).
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		Pool:         pool,
		Sessions:     &SessionStore{pool: pool},
		Users:        &UserStore{pool: pool},
		Dogs:         &DogStore{pool: pool},
		Applications: &ApplicationStore{pool: pool},
	}
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.Pool.Close()
}

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			display_username TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions (user_id)`,
		`CREATE TABLE IF NOT EXISTS dogs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT 'Untitled',
			breed TEXT NOT NULL DEFAULT '',
			date_of_birth TIMESTAMPTZ,
			gender TEXT NOT NULL DEFAULT '',
			size TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			weight DOUBLE PRECISION,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'available',
			price DOUBLE PRECISION,
			microchipped BOOLEAN NOT NULL DEFAULT false,
			vaccinations TEXT[] NOT NULL DEFAULT '{}',
			dewormings INTEGER NOT NULL DEFAULT 0,
			vet_checked BOOLEAN NOT NULL DEFAULT false,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS dog_images (
			id TEXT PRIMARY KEY,
			dog_id TEXT NOT NULL REFERENCES dogs(id) ON DELETE CASCADE,
			object_key TEXT NOT NULL,
			is_primary BOOLEAN NOT NULL DEFAULT false,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS dog_images_dog_id_idx ON dog_images (dog_id)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id TEXT PRIMARY KEY,
			dog_id TEXT NOT NULL REFERENCES dogs(id) ON DELETE CASCADE,
			applicant_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS applications_dog_id_idx ON applications (dog_id)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
