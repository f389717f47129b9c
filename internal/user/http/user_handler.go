// Package http provides HTTP handlers for user management operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	authHTTP "github.com/allisson/accounts/internal/auth/http"
	apperrors "github.com/allisson/accounts/internal/errors"
	"github.com/allisson/accounts/internal/httputil"
	userDomain "github.com/allisson/accounts/internal/user/domain"
	"github.com/allisson/accounts/internal/user/http/dto"
	userUseCase "github.com/allisson/accounts/internal/user/usecase"
)

// UserHandler handles HTTP requests for user management operations.
type UserHandler struct {
	userUseCase userUseCase.UseCase
	translator  *httputil.Translator
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler with required dependencies.
func NewUserHandler(
	userUseCase userUseCase.UseCase,
	translator *httputil.Translator,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		translator:  translator,
		logger:      logger,
	}
}

// parseUserID parses the :id route parameter. The "me" literal has already been
// rewritten to the caller's id by the time a handler runs.
func (h *UserHandler) parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.translator.HandleError(c, userDomain.ErrUserNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// actorClaims fetches the authenticated actor. Routes reaching a handler always
// passed authentication, so absence is a pipeline bug surfaced as 401.
func (h *UserHandler) actorClaims(c *gin.Context) (*authDomain.Claims, bool) {
	claims, ok := authHTTP.GetClaims(c.Request.Context())
	if !ok || claims == nil {
		h.translator.HandleError(c, authDomain.ErrMissingToken)
		return nil, false
	}
	return claims, true
}

// List handles GET /api/users.
// Returns a page of users ordered by creation time.
func (h *UserHandler) List(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		h.translator.HandleValidationError(c, err)
		return
	}

	users, err := h.userUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		h.translator.HandleError(c, err)
		return
	}

	httputil.MakeSuccessResponse(c, http.StatusOK, dto.ListResponse{
		Users:  dto.NewUserResponses(users),
		Offset: offset,
		Limit:  limit,
	})
}

// Search handles GET /api/users/search?q=term.
// Matches against full name and email.
func (h *UserHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.translator.HandleError(c,
			apperrors.WithMessage(apperrors.ErrValidation, "query parameter q is required"))
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		h.translator.HandleValidationError(c, err)
		return
	}

	users, err := h.userUseCase.Search(c.Request.Context(), query, offset, limit)
	if err != nil {
		h.translator.HandleError(c, err)
		return
	}

	httputil.MakeSuccessResponse(c, http.StatusOK, dto.ListResponse{
		Users:  dto.NewUserResponses(users),
		Offset: offset,
		Limit:  limit,
	})
}

// Stats handles GET /api/users/stats.
// Returns aggregate account counts for the admin dashboard.
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.userUseCase.Stats(c.Request.Context())
	if err != nil {
		h.translator.HandleError(c, err)
		return
	}

	httputil.MakeSuccessResponse(c, http.StatusOK, stats)
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.parseUserID(c)
	if !ok {
		return
	}

	user, err := h.userUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		h.translator.HandleError(c, err)
		return
	}

	httputil.MakeSuccessResponse(c, http.StatusOK, dto.NewUserResponse(user))
}

// Update handles PATCH /api/users/:id.
// Applies a partial update; absent fields keep their stored values.
func (h *UserHandler) Update(c *gin.Context) {
	claims, ok := h.actorClaims(c)
	if !ok {
		return
	}

	id, ok := h.parseUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.translator.HandleValidationError(c, err)
		return
	}

	user, err := h.userUseCase.Update(c.Request.Context(), claims, id, req.ToInput())
	if err != nil {
		h.translator.HandleError(c, err)
		return
	}

	h.logger.Info("user updated",
		slog.String("user_id", user.ID.String()),
		slog.String("actor_id", claims.UserID))

	httputil.MakeSuccessResponse(c, http.StatusOK, dto.NewUserResponse(user))
}

// Block handles PATCH /api/users/:id/block.
func (h *UserHandler) Block(c *gin.Context) {
	h.setBlocked(c, true)
}

// Unblock handles PATCH /api/users/:id/unblock.
func (h *UserHandler) Unblock(c *gin.Context) {
	h.setBlocked(c, false)
}

// setBlocked applies a block or unblock state change.
func (h *UserHandler) setBlocked(c *gin.Context, blocked bool) {
	claims, ok := h.actorClaims(c)
	if !ok {
		return
	}

	id, ok := h.parseUserID(c)
	if !ok {
		return
	}

	var (
		user *userDomain.User
		err  error
	)
	if blocked {
		user, err = h.userUseCase.Block(c.Request.Context(), claims, id)
	} else {
		user, err = h.userUseCase.Unblock(c.Request.Context(), claims, id)
	}
	if err != nil {
		h.translator.HandleError(c, err)
		return
	}

	h.logger.Info("user block state changed",
		slog.String("user_id", user.ID.String()),
		slog.Bool("blocked", blocked),
		slog.String("actor_id", claims.UserID))

	httputil.MakeSuccessResponse(c, http.StatusOK, dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	claims, ok := h.actorClaims(c)
	if !ok {
		return
	}

	id, ok := h.parseUserID(c)
	if !ok {
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), claims, id); err != nil {
		h.translator.HandleError(c, err)
		return
	}

	h.logger.Info("user deleted",
		slog.String("user_id", id.String()),
		slog.String("actor_id", claims.UserID))

	httputil.MakeSuccessResponse(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}
