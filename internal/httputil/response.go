// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/accounts/internal/errors"
)

// ErrorResponse is the uniform error envelope returned by every failure path.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Method    string `json:"method"`
}

// SuccessResponse is the envelope for successful responses.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// Translator maps domain errors to wire-level error envelopes. It is the terminal
// failure handler of the request pipeline: no error may escape it unhandled.
type Translator struct {
	logger      *slog.Logger
	development bool
}

// NewTranslator creates a Translator. In development mode the envelope includes
// internal error detail; in production it never does.
func NewTranslator(logger *slog.Logger, development bool) *Translator {
	return &Translator{logger: logger, development: development}
}

// errorMapping holds the wire representation of one error kind.
type errorMapping struct {
	status  int
	code    string
	message string
}

// mappings is the canonical kind to status/code table. The message is a fallback
// used when the error carries no client-facing message of its own.
var mappings = []struct {
	kind    error
	mapping errorMapping
}{
	{apperrors.ErrValidation, errorMapping{http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed"}},
	{apperrors.ErrBadRequest, errorMapping{http.StatusBadRequest, "BAD_REQUEST", "Bad request"}},
	{apperrors.ErrTokenExpired, errorMapping{http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired"}},
	{apperrors.ErrInvalidToken, errorMapping{http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token"}},
	{apperrors.ErrUnauthorized, errorMapping{http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication is required"}},
	{apperrors.ErrForbidden, errorMapping{http.StatusForbidden, "FORBIDDEN", "Insufficient permissions"}},
	{apperrors.ErrNotFound, errorMapping{http.StatusNotFound, "NOT_FOUND", "The requested resource was not found"}},
	{apperrors.ErrConflict, errorMapping{http.StatusConflict, "CONFLICT", "A conflict occurred with existing data"}},
	{apperrors.ErrRateLimited, errorMapping{http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many requests, please try again later"}},
	{apperrors.ErrDatabase, errorMapping{http.StatusInternalServerError, "DATABASE_ERROR", "A database error occurred"}},
	{apperrors.ErrUnavailable, errorMapping{http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable"}},
}

// HandleError writes the error envelope for err and aborts the request.
// Unknown errors are coerced to 500 INTERNAL_SERVER_ERROR and their detail is
// withheld outside development mode.
func (t *Translator) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	mapping := errorMapping{
		status:  http.StatusInternalServerError,
		code:    "INTERNAL_SERVER_ERROR",
		message: "An internal error occurred",
	}
	for _, m := range mappings {
		if apperrors.Is(err, m.kind) {
			mapping = m.mapping
			break
		}
	}

	response := ErrorResponse{
		Success:   false,
		Message:   mapping.message,
		Code:      mapping.code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	}

	// Client errors surface the message authored by the domain layer. Server
	// errors keep the generic message and only expose detail in development.
	var appErr *apperrors.Error
	if mapping.status < http.StatusInternalServerError && apperrors.As(err, &appErr) {
		response.Message = appErr.Message
	}
	if t.development {
		response.Details = err.Error()
	}

	if t.logger != nil {
		t.logger.Error("request failed",
			slog.Int("status_code", mapping.status),
			slog.String("error_code", mapping.code),
			slog.String("path", response.Path),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(mapping.status, response)
}

// HandleValidationError writes a 400 envelope for malformed or invalid input.
func (t *Translator) HandleValidationError(c *gin.Context, err error) {
	t.HandleError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
}

// NoRouteHandler synthesizes the 404 envelope for requests matching no route.
// It goes through the same translation path as every other failure.
func (t *Translator) NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		t.HandleError(c, apperrors.WithMessage(apperrors.ErrNotFound, "Route not found"))
	}
}

// RecoveryHandler converts panics into the unhandled-error envelope.
func (t *Translator) RecoveryHandler() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		if t.logger != nil {
			t.logger.Error("panic recovered",
				slog.Any("error", recovered),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
			)
		}
		t.HandleError(c, apperrors.New("unhandled panic"))
	}
}

// MakeSuccessResponse writes a success envelope with the given status and payload.
func MakeSuccessResponse(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}
