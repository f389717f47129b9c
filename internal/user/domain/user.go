// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	apperrors "github.com/allisson/accounts/internal/errors"
)

// User represents a user account in the system. Password always holds the hash,
// never the plain text, and is excluded from every serialized representation.
type User struct {
	ID        uuid.UUID
	FullName  string
	BirthDate time.Time
	Email     string
	Password  string
	Role      authDomain.Role
	IsBlocked bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats holds aggregate account counts for the admin dashboard.
type Stats struct {
	Total   int64 `json:"total"`
	Admins  int64 `json:"admins"`
	Blocked int64 `json:"blocked"`
	Active  int64 `json:"active"`
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.WithMessage(apperrors.ErrNotFound, "User not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = apperrors.WithMessage(apperrors.ErrConflict, "Email is already registered")

	// ErrSelfAction indicates an actor tried to block, unblock or delete their own
	// account through the admin endpoints. This is a request-shape error, not a
	// permission error.
	ErrSelfAction = apperrors.WithMessage(apperrors.ErrBadRequest, "You cannot perform this action on your own account")
)
