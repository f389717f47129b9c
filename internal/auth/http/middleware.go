// Package http provides the authentication and authorization middleware pipeline.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	authService "github.com/allisson/accounts/internal/auth/service"
	"github.com/allisson/accounts/internal/httputil"
)

// bearerPrefix is matched case-insensitively per RFC 6750.
const bearerPrefix = "bearer "

// extractBearerToken reads the Bearer token from the Authorization header.
// Returns ErrMissingToken when the header is absent, lacks the Bearer prefix,
// or carries an empty token.
func extractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", authDomain.ErrMissingToken
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", authDomain.ErrMissingToken
	}
	return token, nil
}

// AuthenticationMiddleware verifies the Bearer token and attaches the decoded
// claim to the request context for downstream guards.
//
// Failure modes, all 401 through the error translator:
//   - Missing header or wrong prefix: "Access token is required"
//   - Malformed token or bad signature: invalid-token
//   - Expired token: token-expired
//
// On failure nothing is attached and the pipeline halts; no business logic runs.
func AuthenticationMiddleware(
	tokenService authService.TokenService,
	translator *httputil.Translator,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c)
		if err != nil {
			logger.Debug("authentication failed: missing bearer token")
			translator.HandleError(c, err)
			return
		}

		claims, err := tokenService.Verify(token)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			translator.HandleError(c, err)
			return
		}

		ctx := WithClaims(c.Request.Context(), claims)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("user_id", claims.UserID),
			slog.String("role", string(claims.Role)))

		c.Next()
	}
}

// OptionalAuthenticationMiddleware attaches a claim when a valid Bearer token is
// present and silently continues anonymously otherwise. Used for routes serving
// public content enhanced for authenticated members. It never aborts the request.
func OptionalAuthenticationMiddleware(
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c)
		if err != nil {
			c.Next()
			return
		}

		claims, err := tokenService.Verify(token)
		if err != nil {
			logger.Debug("optional authentication skipped", slog.String("error", err.Error()))
			c.Next()
			return
		}

		ctx := WithClaims(c.Request.Context(), claims)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
