// Package password implements secure hashing and verification of user
// passwords on top of bcrypt.
//
// GetHash produces a salted bcrypt hash for storage; CompareHash checks a
// candidate password against a stored hash. A malformed stored hash makes
// CompareHash return an error rather than panic.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when no cost is configured.
const DefaultCost = 12

// GetHash returns the bcrypt hash of a password with the given work
// factor. A cost below bcrypt.MinCost falls back to DefaultCost.
func GetHash(password string, cost int) (string, error) {
	const op = "password.GetHash"
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash checks a candidate password against a stored bcrypt hash.
//
// Returns nil when the password matches, an error otherwise. bcrypt's
// comparison is constant time for well-formed hashes.
func CompareHash(originalHash, candidate string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(candidate)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
