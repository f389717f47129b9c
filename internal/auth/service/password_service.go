package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/accounts/internal/errors"
)

// PasswordService hashes and verifies user passwords. Callers treat the hash as
// opaque; the algorithm and parameters live entirely behind this interface.
type PasswordService interface {
	Hash(plainPassword string) (string, error)
	Verify(plainPassword, hashedPassword string) bool
}

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService with the interactive policy,
// sized for per-request login hashing.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}

// Hash hashes a plain text password.
func (s *passwordService) Hash(plainPassword string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plainPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

// Verify performs a constant-time comparison between a plain password and its hash.
func (s *passwordService) Verify(plainPassword, hashedPassword string) bool {
	ok, err := s.hasher.Verify([]byte(plainPassword), hashedPassword)
	if err != nil {
		return false
	}
	return ok
}
