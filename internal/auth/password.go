package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinTokenLength is the shortest admin token accepted for hashing.
const MinTokenLength = 16

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenTooShort = errors.New("token must be at least 16 characters")
	ErrTokenTooLong  = errors.New("token exceeds maximum length of 72 bytes")
)

// HashToken creates a bcrypt hash of an admin token for AUTH_ADMIN_TOKEN_HASH.
func HashToken(token string, cost int) (string, error) {
	if len(token) < MinTokenLength {
		return "", ErrTokenTooShort
	}
	// bcrypt has a 72-byte limit
	if len(token) > 72 {
		return "", ErrTokenTooLong
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckToken compares a token with its hash.
func CheckToken(token, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}
