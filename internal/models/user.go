package models

import "time"

// User represents an admin account. The portal is single-tenant: the first
// (and normally only) user is created through the setup flow.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	PasswordHash    string    `json:"-"`
	DisplayUsername string    `json:"display_username,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
