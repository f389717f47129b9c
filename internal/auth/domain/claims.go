// Package domain defines the identity claim, roles and permissions used by the
// authentication and authorization pipeline.
package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token type markers carried in the tokenType claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the decoded identity payload of a verified token. A claim is either
// fully valid (signature verifies, not expired) or entirely rejected; it is never
// mutated after issuance.
type Claims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claim carries the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// TokenPair holds the access and refresh tokens issued together at login and
// registration time. Both share the payload shape and differ only in lifetime.
type TokenPair struct {
	AccessToken           string `json:"token"`
	RefreshToken          string `json:"refreshToken"`
	AccessTokenExpiresIn  int64  `json:"expiresIn"`
	RefreshTokenExpiresIn int64  `json:"refreshExpiresIn"`
}
