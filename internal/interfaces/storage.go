package interfaces

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sekhonkennels/kennel-portal/internal/models"
)

// ErrNotFound is returned by stores when a record does not exist.
// Absence is a valid terminal state, not a failure.
var ErrNotFound = errors.New("record not found")

// SessionStore persists session records keyed by token digest.
type SessionStore interface {
	Insert(ctx context.Context, s *models.Session) error
	// Get returns ErrNotFound when no session exists for the digest.
	Get(ctx context.Context, idHash string) (*models.Session, error)
	// UpdateExpiry extends a session's expiration. Updating an absent
	// row is not an error.
	UpdateExpiry(ctx context.Context, idHash string, expiresAt time.Time) error
	// Delete removes a session. Deleting an absent row is not an error.
	Delete(ctx context.Context, idHash string) error
}

// UserStore persists admin accounts.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// DogListFilter narrows admin dog listings.
type DogListFilter struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	Published *bool
}

// DogListItem is a dog row joined with its primary image key.
type DogListItem struct {
	Dog          models.Dog
	PrimaryImage string
}

// DogList is one page of dog listings.
type DogList struct {
	Items      []DogListItem
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// DogStore persists dog listings and their images.
type DogStore interface {
	CreateDraft(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Dog, error)
	Update(ctx context.Context, dog *models.Dog) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter DogListFilter) (*DogList, error)
	ListPublished(ctx context.Context) ([]DogListItem, error)

	Images(ctx context.Context, dogID string) ([]models.DogImage, error)
	GetImage(ctx context.Context, imageID string) (*models.DogImage, error)
	InsertImage(ctx context.Context, img *models.DogImage) error
	DeleteImage(ctx context.Context, imageID string) error
	DeleteImageByKey(ctx context.Context, objectKey string) error
	SetPrimaryImage(ctx context.Context, dogID, imageID string) error
	NextDisplayOrder(ctx context.Context, dogID string) (int, error)
}

// ApplicationStore persists adoption applications.
type ApplicationStore interface {
	Insert(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, status string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Application, error)
}

// Stats are the admin dashboard counters.
type Stats struct {
	PendingApplications int `json:"applications"`
	PublishedDogs       int `json:"dogs"`
}

// StatsStore reads dashboard counters.
type StatsStore interface {
	Stats(ctx context.Context) (*Stats, error)
}

// MediaObject describes one stored bucket object.
type MediaObject struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ETag        string    `json:"etag"`
	ContentType string    `json:"content_type,omitempty"`
	Uploaded    time.Time `json:"uploaded"`
}

// MediaPage is one page of bucket objects.
type MediaPage struct {
	Items      []MediaObject
	NextCursor string
}

// MediaStorage provides access to the image bucket.
type MediaStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, *MediaObject, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix, cursor string, limit int) (*MediaPage, error)
}
