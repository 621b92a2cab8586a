// Package auth implements admin authentication: token hashing, password
// checks, and the session lifecycle (create, validate with sliding renewal,
// revoke) backed by the session store and an in-process cache.
package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
)

// Algorithm selects a SHA digest strength for ComputeHash.
type Algorithm string

const (
	// SHA1 is kept for legacy compatibility only; do not use for new data.
	SHA1   Algorithm = "SHA-1"
	SHA256 Algorithm = "SHA-256"
	SHA384 Algorithm = "SHA-384"
	SHA512 Algorithm = "SHA-512"
)

// ComputeHash returns the lowercase hex digest of input. Deterministic and
// pure; an unsupported algorithm is a programmer error and panics.
func ComputeHash(alg Algorithm, input []byte) string {
	switch alg {
	case SHA1:
		sum := sha1.Sum(input)
		return hex.EncodeToString(sum[:])
	case SHA256:
		sum := sha256.Sum256(input)
		return hex.EncodeToString(sum[:])
	case SHA384:
		sum := sha512.Sum384(input)
		return hex.EncodeToString(sum[:])
	case SHA512:
		sum := sha512.Sum512(input)
		return hex.EncodeToString(sum[:])
	default:
		panic(fmt.Sprintf("auth: unsupported hash algorithm %q", alg))
	}
}

// HashToken computes the storage digest of a raw session token. The digest,
// never the raw token, is what gets persisted and used as a cache key.
func HashToken(rawToken string) string {
	return ComputeHash(SHA256, []byte(rawToken))
}
