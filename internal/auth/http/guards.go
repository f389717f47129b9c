package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	"github.com/allisson/accounts/internal/httputil"
)

// MeParam is the sentinel route parameter value resolved to the caller's own id.
const MeParam = "me"

// nonAdminUpdatableFields is the allow-list of update payload fields a non-admin
// actor may touch. Declared once here so guard and tests share a single source.
var nonAdminUpdatableFields = map[string]bool{
	"fullName":  true,
	"birthDate": true,
	"email":     true,
}

// requireClaims fetches the identity claim, failing with 401 when the
// authentication middleware did not run. Guards re-check absence defensively.
func requireClaims(c *gin.Context, translator *httputil.Translator) (*authDomain.Claims, bool) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok || claims == nil {
		translator.HandleError(c, authDomain.ErrMissingToken)
		return nil, false
	}
	return claims, true
}

// RoleMiddleware passes iff the claim's role is in the allow-list.
// Admin-only chains report "Admin privileges required"; mixed allow-lists report
// the generic insufficient-permissions message.
func RoleMiddleware(
	translator *httputil.Translator,
	logger *slog.Logger,
	roles ...authDomain.Role,
) gin.HandlerFunc {
	adminOnly := len(roles) == 1 && roles[0] == authDomain.RoleAdmin

	return func(c *gin.Context) {
		claims, ok := requireClaims(c, translator)
		if !ok {
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		logger.Debug("authorization failed: role not allowed",
			slog.String("user_id", claims.UserID),
			slog.String("role", string(claims.Role)))

		if adminOnly {
			translator.HandleError(c, authDomain.ErrAdminRequired)
			return
		}
		translator.HandleError(c, authDomain.ErrInsufficientPermissions)
	}
}

// ResolveMeMiddleware rewrites a route parameter literally equal to "me" to the
// caller's own user id. It must run after authentication and before any
// ownership guard reading that parameter.
func ResolveMeMiddleware(translator *httputil.Translator, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param(param) != MeParam {
			c.Next()
			return
		}

		claims, ok := requireClaims(c, translator)
		if !ok {
			return
		}

		for i := range c.Params {
			if c.Params[i].Key == param {
				c.Params[i].Value = claims.UserID
			}
		}

		c.Next()
	}
}

// ownsTarget implements the ownership rule shared by several guards: admins own
// everything, everyone owns themselves.
func ownsTarget(claims *authDomain.Claims, targetUserID string) bool {
	return claims.IsAdmin() || claims.UserID == targetUserID
}

// OwnershipMiddleware passes iff the actor is an admin or the route parameter
// names the actor's own user id.
func OwnershipMiddleware(
	translator *httputil.Translator,
	logger *slog.Logger,
	param string,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireClaims(c, translator)
		if !ok {
			return
		}

		target := c.Param(param)
		if !ownsTarget(claims, target) {
			logger.Debug("authorization failed: not resource owner",
				slog.String("user_id", claims.UserID),
				slog.String("target", target))
			translator.HandleError(c, authDomain.ErrInsufficientPermissions)
			return
		}

		c.Next()
	}
}

// ModifyMiddleware applies the ownership rule before mutating operations and,
// for non-admin actors, requires every field present in the update payload to be
// in the non-admin allow-list. Violations are rejected with 403 naming the
// offending fields. The request body is restored for the downstream handler.
func ModifyMiddleware(
	translator *httputil.Translator,
	logger *slog.Logger,
	param string,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireClaims(c, translator)
		if !ok {
			return
		}

		target := c.Param(param)
		if !ownsTarget(claims, target) {
			translator.HandleError(c, authDomain.ErrInsufficientPermissions)
			return
		}

		if claims.IsAdmin() {
			c.Next()
			return
		}

		offending, err := disallowedBodyFields(c)
		if err != nil {
			translator.HandleValidationError(c, err)
			return
		}
		if len(offending) > 0 {
			logger.Debug("authorization failed: disallowed update fields",
				slog.String("user_id", claims.UserID),
				slog.Any("fields", offending))
			translator.HandleError(c, forbiddenFieldsError(offending))
			return
		}

		c.Next()
	}
}

// PermissionMiddleware passes iff the permission table entry for the claim's
// role contains the given permission token.
func PermissionMiddleware(
	translator *httputil.Translator,
	logger *slog.Logger,
	permission authDomain.Permission,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireClaims(c, translator)
		if !ok {
			return
		}

		if !claims.Role.HasPermission(permission) {
			logger.Debug("authorization failed: missing permission",
				slog.String("user_id", claims.UserID),
				slog.String("permission", string(permission)))
			translator.HandleError(c, authDomain.ErrInsufficientPermissions)
			return
		}

		c.Next()
	}
}

// PermissionOrOwnershipMiddleware permits the action when the role holds the
// permission OR the ownership rule for the route parameter succeeds. It is an
// OR, not an AND: owners act on their own resources without the explicit grant.
func PermissionOrOwnershipMiddleware(
	translator *httputil.Translator,
	logger *slog.Logger,
	permission authDomain.Permission,
	param string,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireClaims(c, translator)
		if !ok {
			return
		}

		if claims.Role.HasPermission(permission) || ownsTarget(claims, c.Param(param)) {
			c.Next()
			return
		}

		logger.Debug("authorization failed: neither permission nor ownership",
			slog.String("user_id", claims.UserID),
			slog.String("permission", string(permission)))
		translator.HandleError(c, authDomain.ErrInsufficientPermissions)
	}
}

// disallowedBodyFields reads the JSON update payload, restores the body for the
// handler, and returns the fields outside the non-admin allow-list.
func disallowedBodyFields(c *gin.Context) ([]string, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body")
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("request body must be a JSON object")
	}

	var offending []string
	for field := range payload {
		if !nonAdminUpdatableFields[field] {
			offending = append(offending, field)
		}
	}
	sort.Strings(offending)
	return offending, nil
}

// forbiddenFieldsError builds the 403 error naming the offending payload fields.
func forbiddenFieldsError(fields []string) error {
	return authDomain.NewForbiddenFieldsError(strings.Join(fields, ", "))
}
