// Package service provides the token codec for the authentication pipeline.
package service

import (
	"time"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
)

// TokenService encodes and decodes signed, time-bound identity claims. Tokens are
// opaque to callers outside this package: three base64url segments separated by
// dots (header.payload.signature).
type TokenService interface {
	// Issue produces a signed token for the given identity with the given type
	// and lifetime. It fails only on signing-key misconfiguration.
	Issue(userID, email string, role authDomain.Role, tokenType string, ttl time.Duration) (string, error)

	// IssuePair produces the access/refresh token pair issued together at login
	// and registration time.
	IssuePair(userID, email string, role authDomain.Role) (*authDomain.TokenPair, error)

	// Verify validates the signature and expiry and returns the decoded claim.
	// Expired tokens fail with the token-expired kind; anything else fails with
	// the invalid-token kind. No other validation is performed.
	Verify(token string) (*authDomain.Claims, error)

	// DecodeUnverified returns the payload without verifying signature or expiry.
	// Diagnostic use only, never for trust decisions.
	DecodeUnverified(token string) *authDomain.Claims
}
