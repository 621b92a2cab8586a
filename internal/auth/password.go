package auth

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// dummyHash is compared against when the username does not exist, so login
// takes the same time whether or not the account is real.
const dummyHash = "$2a$10$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hashedPassword.
func CheckPassword(password, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// CheckPasswordOrDummy compares against hashedPassword, or against a fixed
// dummy hash when the stored hash is empty (unknown user). The comparison
// always runs to keep timing uniform.
func CheckPasswordOrDummy(password, hashedPassword string) bool {
	hashToCheck := hashedPassword
	if hashToCheck == "" {
		hashToCheck = dummyHash
	}
	ok := CheckPassword(password, hashToCheck)
	return ok && hashedPassword != ""
}
