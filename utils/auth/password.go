package auth

import (
	"errors"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("password does not match")
)

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

// defaultHashCost trades login latency for brute-force resistance. The
// BCRYPT_COST env var overrides it for constrained deployments.
const defaultHashCost = 12

func hashCost() int {
	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		if cost, err := strconv.Atoi(raw); err == nil && cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			return cost
		}
	}
	return defaultHashCost
}

// HashPassword hashes a password with bcrypt after enforcing the length
// policy
func HashPassword(password string) (string, error) {
	if !IsPasswordValid(password) {
		return "", ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost())
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword checks a plaintext password against its stored hash
func VerifyPassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// IsPasswordValid reports whether a password meets the length policy
func IsPasswordValid(password string) bool {
	return len(password) >= MinPasswordLength
}
