package domain

import (
	apperrors "github.com/allisson/accounts/internal/errors"
)

// Domain-specific errors for authentication and authorization.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so the
	// response never reveals whether a specific email exists.
	ErrInvalidCredentials = apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid email or password")

	// ErrMissingToken indicates the Authorization header is absent or lacks the
	// Bearer prefix.
	ErrMissingToken = apperrors.WithMessage(apperrors.ErrUnauthorized, "Access token is required")

	// ErrTokenInvalid indicates the token is malformed or its signature does not
	// verify. The internal cause is never leaked.
	ErrTokenInvalid = apperrors.WithMessage(apperrors.ErrInvalidToken, "Invalid token")

	// ErrTokenExpired indicates the token's expiry has passed.
	ErrTokenExpired = apperrors.WithMessage(apperrors.ErrTokenExpired, "Token has expired")

	// ErrInsufficientPermissions indicates a valid identity without the required
	// role or permission.
	ErrInsufficientPermissions = apperrors.WithMessage(apperrors.ErrForbidden, "Insufficient permissions")

	// ErrAdminRequired indicates an admin-only endpoint was called without the
	// admin role.
	ErrAdminRequired = apperrors.WithMessage(apperrors.ErrForbidden, "Admin privileges required")

	// ErrAccountBlocked indicates the account exists but has been blocked by an
	// administrator.
	ErrAccountBlocked = apperrors.WithMessage(apperrors.ErrForbidden, "Account is blocked")
)

// NewForbiddenFieldsError reports an update payload touching fields the actor
// may not change. The fields argument is a pre-joined, sorted list.
func NewForbiddenFieldsError(fields string) error {
	return apperrors.WithMessage(apperrors.ErrForbidden,
		"You are not allowed to update the following fields: "+fields)
}
