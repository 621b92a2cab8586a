package models

import "time"

// Session represents an authenticated admin browser session.
//
// ID holds the SHA-256 digest of the secret token handed to the client;
// the raw token itself is never persisted, so a database read alone cannot
// be used to impersonate a session.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired returns true if the session has expired at the given instant.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
