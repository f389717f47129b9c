package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	authHTTP "github.com/allisson/accounts/internal/auth/http"
	authService "github.com/allisson/accounts/internal/auth/service"
	authUseCase "github.com/allisson/accounts/internal/auth/usecase"
	"github.com/allisson/accounts/internal/config"
	"github.com/allisson/accounts/internal/httputil"
	userDomain "github.com/allisson/accounts/internal/user/domain"
	userHTTP "github.com/allisson/accounts/internal/user/http"
	userUseCase "github.com/allisson/accounts/internal/user/usecase"
)

// stubAuthUseCase satisfies the auth use case interface with canned responses.
type stubAuthUseCase struct {
	user *userDomain.User
}

func (s *stubAuthUseCase) Register(ctx context.Context, input authUseCase.RegisterInput) (*authUseCase.AuthOutput, error) {
	return &authUseCase.AuthOutput{User: s.user, Tokens: &authDomain.TokenPair{}}, nil
}

func (s *stubAuthUseCase) Login(ctx context.Context, input authUseCase.LoginInput) (*authUseCase.AuthOutput, error) {
	return &authUseCase.AuthOutput{User: s.user, Tokens: &authDomain.TokenPair{}}, nil
}

func (s *stubAuthUseCase) Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error) {
	return &authDomain.TokenPair{}, nil
}

func (s *stubAuthUseCase) Me(ctx context.Context, claims *authDomain.Claims) (*userDomain.User, error) {
	return s.user, nil
}

// stubUserUseCase satisfies the user use case interface with canned responses.
type stubUserUseCase struct {
	user *userDomain.User
}

func (s *stubUserUseCase) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	return s.user, nil
}

func (s *stubUserUseCase) List(ctx context.Context, offset, limit int) ([]*userDomain.User, error) {
	return []*userDomain.User{s.user}, nil
}

func (s *stubUserUseCase) Search(ctx context.Context, query string, offset, limit int) ([]*userDomain.User, error) {
	return []*userDomain.User{s.user}, nil
}

func (s *stubUserUseCase) Stats(ctx context.Context) (*userDomain.Stats, error) {
	return &userDomain.Stats{Total: 1, Active: 1}, nil
}

func (s *stubUserUseCase) Update(
	ctx context.Context,
	actor *authDomain.Claims,
	id uuid.UUID,
	input userUseCase.UpdateUserInput,
) (*userDomain.User, error) {
	return s.user, nil
}

func (s *stubUserUseCase) Block(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) (*userDomain.User, error) {
	return s.user, nil
}

func (s *stubUserUseCase) Unblock(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) (*userDomain.User, error) {
	return s.user, nil
}

func (s *stubUserUseCase) Delete(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) error {
	return nil
}

type serverFixture struct {
	handler      http.Handler
	tokenService authService.TokenService
	user         *userDomain.User
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	cfg := &config.Config{
		ServerHost:           "127.0.0.1",
		ServerPort:           0,
		Environment:          "production",
		LogLevel:             "error",
		RateLimitAuthWindow:  time.Minute,
		RateLimitAuthMax:     100,
		RateLimitAPIWindow:   time.Minute,
		RateLimitAPIMax:      100,
		RateLimitAdminWindow: time.Minute,
		RateLimitAdminMax:    100,
	}

	logger := slog.Default()
	translator := httputil.NewTranslator(logger, false)

	tokenService, err := authService.NewJWTService("integration-test-secret", time.Hour)
	require.NoError(t, err)

	user := &userDomain.User{
		ID:       uuid.Must(uuid.NewV7()),
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Role:     authDomain.RoleUser,
	}

	server := NewServer(ServerDeps{
		Config:       cfg,
		Logger:       logger,
		Translator:   translator,
		TokenService: tokenService,
		AuthHandler:  authHTTP.NewAuthHandler(&stubAuthUseCase{user: user}, translator, logger),
		UserHandler:  userHTTP.NewUserHandler(&stubUserUseCase{user: user}, translator, logger),
	})

	return &serverFixture{
		handler:      server.GetHandler(),
		tokenService: tokenService,
		user:         user,
	}
}

func (f *serverFixture) accessToken(t *testing.T, userID string, role authDomain.Role) string {
	t.Helper()
	token, err := f.tokenService.Issue(userID, "test@example.com", role, authDomain.TokenTypeAccess, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *serverFixture) do(method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	f.handler.ServeHTTP(w, req)
	return w
}

func TestServer_HealthEndpoint(t *testing.T) {
	fixture := newServerFixture(t)

	w := fixture.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestServer_UnknownRouteReturnsErrorEnvelope(t *testing.T) {
	fixture := newServerFixture(t)

	w := fixture.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, "Route not found", response.Message)
}

func TestServer_ProtectedRoutesRequireAuthentication(t *testing.T) {
	fixture := newServerFixture(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/" + fixture.user.ID.String()},
		{http.MethodDelete, "/api/users/" + fixture.user.ID.String()},
	}

	for _, p := range paths {
		w := fixture.do(p.method, p.path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
	}
}

func TestServer_AdminRoutesRejectRegularUsers(t *testing.T) {
	fixture := newServerFixture(t)
	token := fixture.accessToken(t, uuid.Must(uuid.NewV7()).String(), authDomain.RoleUser)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/stats"},
		{http.MethodGet, "/api/users/search?q=jane"},
		{http.MethodPatch, "/api/users/" + fixture.user.ID.String() + "/block"},
		{http.MethodDelete, "/api/users/" + fixture.user.ID.String()},
	}

	for _, p := range paths {
		w := fixture.do(p.method, p.path, token)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", p.method, p.path)

		var response httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Admin privileges required", response.Message)
	}
}

func TestServer_AdminRoutesAllowAdmins(t *testing.T) {
	fixture := newServerFixture(t)
	token := fixture.accessToken(t, uuid.Must(uuid.NewV7()).String(), authDomain.RoleAdmin)

	w := fixture.do(http.MethodGet, "/api/users", token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = fixture.do(http.MethodGet, "/api/users/stats", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_MeAliasResolvesToOwnAccount(t *testing.T) {
	fixture := newServerFixture(t)
	token := fixture.accessToken(t, fixture.user.ID.String(), authDomain.RoleUser)

	w := fixture.do(http.MethodGet, "/api/users/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fixture.user.ID.String())
}

func TestServer_UsersCannotReadOtherAccounts(t *testing.T) {
	fixture := newServerFixture(t)
	token := fixture.accessToken(t, uuid.Must(uuid.NewV7()).String(), authDomain.RoleUser)

	w := fixture.do(http.MethodGet, "/api/users/"+fixture.user.ID.String(), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestServer_RateLimitHeadersPresent(t *testing.T) {
	fixture := newServerFixture(t)

	w := fixture.do(http.MethodPost, "/api/auth/login", "")
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}
