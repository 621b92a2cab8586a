package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
	"github.com/sekhonkennels/kennel-portal/internal/models"
)

const applicationColumns = `id, dog_id, applicant_name, email, phone, address,
	status, created_at, updated_at`

// ApplicationStore persists adoption applications.
type ApplicationStore struct {
	pool *pgxpool.Pool
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(&a.ID, &a.DogID, &a.ApplicantName, &a.Email, &a.Phone,
		&a.Address, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ApplicationStore) Insert(ctx context.Context, app *models.Application) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO applications (id, dog_id, applicant_name, email, phone, address, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		app.ID, app.DogID, app.ApplicantName, app.Email, app.Phone, app.Address, app.Status)
	return err
}

func (s *ApplicationStore) Get(ctx context.Context, id string) (*models.Application, error) {
	app, err := scanApplication(s.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	return app, err
}

// List returns applications newest first, optionally filtered by status.
func (s *ApplicationStore) List(ctx context.Context, status string) ([]models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(&a.ID, &a.DogID, &a.ApplicantName, &a.Email, &a.Phone,
			&a.Address, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (s *ApplicationStore) UpdateStatus(ctx context.Context, id, status string) (*models.Application, error) {
	app, err := scanApplication(s.pool.QueryRow(ctx,
		`UPDATE applications SET status = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+applicationColumns, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	return app, err
}

// Stats reads the dashboard counters in one round trip.
func (s *Store) Stats(ctx context.Context) (*interfaces.Stats, error) {
	var stats interfaces.Stats
	err := s.Pool.QueryRow(ctx,
		`SELECT
			(SELECT count(*) FROM applications WHERE status = 'pending'),
			(SELECT count(*) FROM dogs
			 WHERE published_at IS NOT NULL AND status IN ('available', 'reserved'))`).
		Scan(&stats.PendingApplications, &stats.PublishedDogs)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
