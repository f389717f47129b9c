// Package http provides the authentication and authorization middleware pipeline.
package http

import (
	"context"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
)

// claimsKey is a context key type for storing authenticated identity claims.
type claimsKey struct{}

// WithClaims stores a verified identity claim in the context.
// This is called by the authentication middleware after successful token verification.
func WithClaims(ctx context.Context, claims *authDomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves the identity claim from the context.
// Returns (claims, true) if present, or (nil, false) if the request is anonymous.
// Guards and handlers only read the claim; it is never mutated after attachment.
func GetClaims(ctx context.Context) (*authDomain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authDomain.Claims)
	return claims, ok
}
