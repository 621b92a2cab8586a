package models

import "time"

// Dog status values.
const (
	DogStatusAvailable = "available"
	DogStatusReserved  = "reserved"
	DogStatusSold      = "sold"
)

// Dog represents a dog listing. New listings start as unnamed drafts
// (PublishedAt nil) and only appear on the public site once published.
type Dog struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Breed        string     `json:"breed,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	Size         string     `json:"size,omitempty"`
	Color        string     `json:"color,omitempty"`
	Weight       *float64   `json:"weight,omitempty"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Price        *float64   `json:"price,omitempty"`
	Microchipped bool       `json:"microchipped"`
	Vaccinations []string   `json:"vaccinations,omitempty"`
	Dewormings   int        `json:"dewormings"`
	VetChecked   bool       `json:"vet_checked"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsPublished returns true if the dog is visible on the public site.
func (d *Dog) IsPublished() bool {
	return d.PublishedAt != nil
}

// DogImage represents one stored image for a dog. ObjectKey is the bucket
// key of the original upload; resized variants share the key with a
// _md/_sm suffix.
type DogImage struct {
	ID           string    `json:"id"`
	DogID        string    `json:"dog_id"`
	ObjectKey    string    `json:"object_key"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
