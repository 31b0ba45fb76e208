package utils

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor applied to newly created hashes.
const bcryptCost = 10

// HashPassword derives a bcrypt hash from a plain-text password.
// The plain text is never stored or logged.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// ComparePasswords reports whether password matches hashedPassword.
// Returns a non-nil error on mismatch.
func ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
