package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenLength is the character length of raw session tokens handed to
// clients.
const TokenLength = 64

// GenerateToken returns a cryptographically secure random string of exactly
// length base64url characters.
func GenerateToken(length int) (string, error) {
	requiredBytes := (length*3 + 3) / 4

	b := make([]byte, requiredBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: failed to generate token: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(b)
	return encoded[:length], nil
}
