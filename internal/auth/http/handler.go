package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	"github.com/allisson/accounts/internal/auth/http/dto"
	authUseCase "github.com/allisson/accounts/internal/auth/usecase"
	"github.com/allisson/accounts/internal/httputil"
	userDTO "github.com/allisson/accounts/internal/user/http/dto"
)

// AuthHandler handles HTTP requests for registration, login, token refresh and
// the authenticated profile.
type AuthHandler struct {
	authUseCase authUseCase.UseCase
	translator  *httputil.Translator
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(
	authUseCase authUseCase.UseCase,
	translator *httputil.Translator,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		translator:  translator,
		logger:      logger,
	}
}

// Register handles POST /api/auth/register.
// Creates a USER-role account and returns 201 with the first token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.translator.HandleValidationError(c, err)
		return
	}

	output, err := h.authUseCase.Register(c.Request.Context(), authUseCase.RegisterInput{
		FullName:  req.FullName,
		BirthDate: req.BirthDate,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.translator.HandleError(c, err)
		return
	}

	h.logger.Info("user registered",
		slog.String("user_id", output.User.ID.String()),
		slog.String("email", output.User.Email))

	httputil.MakeSuccessResponse(c, http.StatusCreated, dto.NewAuthResponse(output.Tokens, output.User))
}

// Login handles POST /api/auth/login.
// Authenticates credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.translator.HandleValidationError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.translator.HandleValidationError(c, err)
		return
	}

	output, err := h.authUseCase.Login(c.Request.Context(), authUseCase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.translator.HandleError(c, err)
		return
	}

	h.logger.Info("user logged in", slog.String("user_id", output.User.ID.String()))

	httputil.MakeSuccessResponse(c, http.StatusOK, dto.NewAuthResponse(output.Tokens, output.User))
}

// Refresh handles POST /api/auth/refresh.
// Redeems a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.translator.HandleValidationError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.translator.HandleValidationError(c, err)
		return
	}

	tokens, err := h.authUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.translator.HandleError(c, err)
		return
	}

	httputil.MakeSuccessResponse(c, http.StatusOK, dto.NewTokenResponse(tokens))
}

// Logout handles POST /api/auth/logout.
// Tokens are stateless, so logout succeeds without server-side bookkeeping; the
// client discards its pair. The route still requires authentication so an
// anonymous call gets 401 rather than a meaningless success.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok || claims == nil {
		h.translator.HandleError(c, authDomain.ErrMissingToken)
		return
	}

	h.logger.Info("user logged out", slog.String("user_id", claims.UserID))

	httputil.MakeSuccessResponse(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me.
// Returns the storage-backed profile of the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok || claims == nil {
		h.translator.HandleError(c, authDomain.ErrMissingToken)
		return
	}

	user, err := h.authUseCase.Me(c.Request.Context(), claims)
	if err != nil {
		h.translator.HandleError(c, err)
		return
	}

	httputil.MakeSuccessResponse(c, http.StatusOK, userDTO.NewUserResponse(user))
}
