package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	apperrors "github.com/allisson/accounts/internal/errors"
)

// RefreshTokenExpiration is the fixed lifetime of refresh tokens.
const RefreshTokenExpiration = 7 * 24 * time.Hour

// jwtService implements TokenService using HS256 signed JWTs.
type jwtService struct {
	secret               []byte
	accessTokenLifetime  time.Duration
	refreshTokenLifetime time.Duration
}

// NewJWTService creates a TokenService signing with the given shared secret.
// An empty secret is a process-level misconfiguration and is rejected here so
// the server refuses to start rather than issue unverifiable tokens.
func NewJWTService(secret string, accessTokenLifetime time.Duration) (TokenService, error) {
	if secret == "" {
		return nil, apperrors.New("jwt signing secret must not be empty")
	}
	return &jwtService{
		secret:               []byte(secret),
		accessTokenLifetime:  accessTokenLifetime,
		refreshTokenLifetime: RefreshTokenExpiration,
	}, nil
}

// Issue produces a signed token carrying the identity claim plus issued-at and
// expires-at timestamps.
func (s *jwtService) Issue(
	userID, email string,
	role authDomain.Role,
	tokenType string,
	ttl time.Duration,
) (string, error) {
	now := time.Now().UTC()
	claims := &authDomain.Claims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// IssuePair issues the short-lived access token and the 7-day refresh token.
func (s *jwtService) IssuePair(
	userID, email string,
	role authDomain.Role,
) (*authDomain.TokenPair, error) {
	accessToken, err := s.Issue(userID, email, role, authDomain.TokenTypeAccess, s.accessTokenLifetime)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.Issue(userID, email, role, authDomain.TokenTypeRefresh, s.refreshTokenLifetime)
	if err != nil {
		return nil, err
	}

	return &authDomain.TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresIn:  int64(s.accessTokenLifetime.Seconds()),
		RefreshTokenExpiresIn: int64(s.refreshTokenLifetime.Seconds()),
	}, nil
}

// Verify validates signature and expiry and returns the decoded claim. There is
// no partial trust: any verification failure rejects the token entirely.
func (s *jwtService) Verify(token string) (*authDomain.Claims, error) {
	claims := &authDomain.Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, authDomain.ErrTokenExpired
		}
		// Any other verification failure is reported as invalid-token so the
		// internal cause never leaks to the client.
		return nil, authDomain.ErrTokenInvalid
	}

	if !parsed.Valid || !claims.Role.IsValid() {
		return nil, authDomain.ErrTokenInvalid
	}

	return claims, nil
}

// DecodeUnverified returns the payload without any signature or expiry check.
func (s *jwtService) DecodeUnverified(token string) *authDomain.Claims {
	claims := &authDomain.Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}
