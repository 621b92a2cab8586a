package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
	"github.com/sekhonkennels/kennel-portal/internal/models"
)

const dogColumns = `id, name, breed, date_of_birth, gender, size, color, weight,
	description, status, price, microchipped, vaccinations, dewormings,
	vet_checked, published_at, created_at, updated_at`

const dogColumnsPrefixed = `d.id, d.name, d.breed, d.date_of_birth, d.gender,
	d.size, d.color, d.weight, d.description, d.status, d.price, d.microchipped,
	d.vaccinations, d.dewormings, d.vet_checked, d.published_at, d.created_at,
	d.updated_at`

// DogStore persists dog listings and their images.
type DogStore struct {
	pool *pgxpool.Pool
}

func scanDog(row pgx.Row) (*models.Dog, error) {
	var d models.Dog
	err := row.Scan(&d.ID, &d.Name, &d.Breed, &d.DateOfBirth, &d.Gender, &d.Size,
		&d.Color, &d.Weight, &d.Description, &d.Status, &d.Price, &d.Microchipped,
		&d.Vaccinations, &d.Dewormings, &d.VetChecked, &d.PublishedAt,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDraft inserts an unnamed draft row; all other columns take
// their defaults.
func (s *DogStore) CreateDraft(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO dogs (id) VALUES ($1)`, id)
	return err
}

func (s *DogStore) Get(ctx context.Context, id string) (*models.Dog, error) {
	dog, err := scanDog(s.pool.QueryRow(ctx,
		`SELECT `+dogColumns+` FROM dogs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	return dog, err
}

func (s *DogStore) Update(ctx context.Context, dog *models.Dog) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE dogs SET
			name = $2, breed = $3, date_of_birth = $4, gender = $5, size = $6,
			color = $7, weight = $8, description = $9, status = $10, price = $11,
			microchipped = $12, vaccinations = $13, dewormings = $14,
			vet_checked = $15, published_at = $16, updated_at = now()
		 WHERE id = $1`,
		dog.ID, dog.Name, dog.Breed, dog.DateOfBirth, dog.Gender, dog.Size,
		dog.Color, dog.Weight, dog.Description, dog.Status, dog.Price,
		dog.Microchipped, dog.Vaccinations, dog.Dewormings, dog.VetChecked,
		dog.PublishedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

// Delete removes the dog; image and application rows cascade.
func (s *DogStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM dogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

// List returns one page of dogs for the admin table, joined with each
// dog's primary image key.
func (s *DogStore) List(ctx context.Context, filter interfaces.DogListFilter) (*interfaces.DogList, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var conds []string
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(d.name ILIKE $%d OR d.breed ILIKE $%d)", len(args), len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("d.status = $%d", len(args)))
	}
	if filter.Published != nil {
		if *filter.Published {
			conds = append(conds, "d.published_at IS NOT NULL")
		} else {
			conds = append(conds, "d.published_at IS NULL")
		}
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM dogs d`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s, coalesce(i.object_key, '')
		 FROM dogs d
		 LEFT JOIN dog_images i ON i.dog_id = d.id AND i.is_primary
		 %s
		 ORDER BY d.created_at DESC
		 LIMIT $%d OFFSET $%d`,
		dogColumnsPrefixed, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectDogItems(rows)
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return &interfaces.DogList{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// ListPublished returns every published dog for the public site, newest
// publication first.
func (s *DogStore) ListPublished(ctx context.Context) ([]interfaces.DogListItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+dogColumnsPrefixed+`, coalesce(i.object_key, '')
		 FROM dogs d
		 LEFT JOIN dog_images i ON i.dog_id = d.id AND i.is_primary
		 WHERE d.published_at IS NOT NULL
		 ORDER BY d.published_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDogItems(rows)
}

func collectDogItems(rows pgx.Rows) ([]interfaces.DogListItem, error) {
	items := []interfaces.DogListItem{}
	for rows.Next() {
		var item interfaces.DogListItem
		d := &item.Dog
		err := rows.Scan(&d.ID, &d.Name, &d.Breed, &d.DateOfBirth, &d.Gender,
			&d.Size, &d.Color, &d.Weight, &d.Description, &d.Status, &d.Price,
			&d.Microchipped, &d.Vaccinations, &d.Dewormings, &d.VetChecked,
			&d.PublishedAt, &d.CreatedAt, &d.UpdatedAt, &item.PrimaryImage)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *DogStore) Images(ctx context.Context, dogID string) ([]models.DogImage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, dog_id, object_key, is_primary, display_order, created_at, updated_at
		 FROM dog_images WHERE dog_id = $1
		 ORDER BY display_order, created_at`, dogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []models.DogImage{}
	for rows.Next() {
		var img models.DogImage
		if err := rows.Scan(&img.ID, &img.DogID, &img.ObjectKey, &img.IsPrimary,
			&img.DisplayOrder, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *DogStore) GetImage(ctx context.Context, imageID string) (*models.DogImage, error) {
	var img models.DogImage
	err := s.pool.QueryRow(ctx,
		`SELECT id, dog_id, object_key, is_primary, display_order, created_at, updated_at
		 FROM dog_images WHERE id = $1`, imageID).
		Scan(&img.ID, &img.DogID, &img.ObjectKey, &img.IsPrimary,
			&img.DisplayOrder, &img.CreatedAt, &img.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *DogStore) InsertImage(ctx context.Context, img *models.DogImage) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO dog_images (id, dog_id, object_key, is_primary, display_order)
		 VALUES ($1, $2, $3, $4, $5)`,
		img.ID, img.DogID, img.ObjectKey, img.IsPrimary, img.DisplayOrder)
	return err
}

func (s *DogStore) DeleteImage(ctx context.Context, imageID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM dog_images WHERE id = $1`, imageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

// DeleteImageByKey removes any image rows referencing a bucket key.
// Used when an object is deleted straight from the media library.
func (s *DogStore) DeleteImageByKey(ctx context.Context, objectKey string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM dog_images WHERE object_key = $1`, objectKey)
	return err
}

// SetPrimaryImage marks one image primary and clears the flag on the
// dog's other images in a single transaction.
func (s *DogStore) SetPrimaryImage(ctx context.Context, dogID, imageID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE dog_images SET is_primary = false, updated_at = now()
		 WHERE dog_id = $1 AND is_primary`, dogID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx,
		`UPDATE dog_images SET is_primary = true, updated_at = now()
		 WHERE id = $1 AND dog_id = $2`, imageID, dogID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return interfaces.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *DogStore) NextDisplayOrder(ctx context.Context, dogID string) (int, error) {
	var next int
	err := s.pool.QueryRow(ctx,
		`SELECT coalesce(max(display_order), -1) + 1 FROM dog_images WHERE dog_id = $1`,
		dogID).Scan(&next)
	return next, err
}
