package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	authHTTP "github.com/allisson/accounts/internal/auth/http"
	"github.com/allisson/accounts/internal/httputil"
	userDomain "github.com/allisson/accounts/internal/user/domain"
	userUseCase "github.com/allisson/accounts/internal/user/usecase"
)

type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) List(ctx context.Context, offset, limit int) ([]*userDomain.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) Search(ctx context.Context, query string, offset, limit int) ([]*userDomain.User, error) {
	args := m.Called(ctx, query, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) Stats(ctx context.Context) (*userDomain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.Stats), args.Error(1)
}

func (m *mockUserUseCase) Update(
	ctx context.Context,
	actor *authDomain.Claims,
	id uuid.UUID,
	input userUseCase.UpdateUserInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) Block(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) Unblock(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) Delete(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func adminClaims() *authDomain.Claims {
	return &authDomain.Claims{
		UserID:    uuid.Must(uuid.NewV7()).String(),
		Email:     "admin@example.com",
		Role:      authDomain.RoleAdmin,
		TokenType: authDomain.TokenTypeAccess,
	}
}

func userTestRouter(useCase *mockUserUseCase, claims *authDomain.Claims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(useCase, httputil.NewTranslator(slog.Default(), false), slog.Default())

	router := gin.New()
	if claims != nil {
		router.Use(func(c *gin.Context) {
			ctx := authHTTP.WithClaims(c.Request.Context(), claims)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
	router.GET("/users", handler.List)
	router.GET("/users/search", handler.Search)
	router.GET("/users/stats", handler.Stats)
	router.GET("/users/:id", handler.Get)
	router.PATCH("/users/:id", handler.Update)
	router.PATCH("/users/:id/block", handler.Block)
	router.PATCH("/users/:id/unblock", handler.Unblock)
	router.DELETE("/users/:id", handler.Delete)
	return router
}

func testUser(id uuid.UUID) *userDomain.User {
	return &userDomain.User{
		ID:       id,
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Role:     authDomain.RoleUser,
	}
}

func decodeError(t *testing.T, body []byte) httputil.ErrorResponse {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &response))
	return response
}

func TestUserHandler_List(t *testing.T) {
	t.Run("returns a page of users", func(t *testing.T) {
		useCase := &mockUserUseCase{}
		useCase.On("List", mock.Anything, 0, 50).
			Return([]*userDomain.User{testUser(uuid.Must(uuid.NewV7()))}, nil)

		router := userTestRouter(useCase, adminClaims())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "jane@example.com")
		// The password hash never leaves the server.
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("invalid pagination yields a validation error", func(t *testing.T) {
		useCase := &mockUserUseCase{}
		router := userTestRouter(useCase, adminClaims())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?limit=500", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		useCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserHandler_Search(t *testing.T) {
	t.Run("matches name or email", func(t *testing.T) {
		useCase := &mockUserUseCase{}
		useCase.On("Search", mock.Anything, "jane", 0, 50).
			Return([]*userDomain.User{testUser(uuid.Must(uuid.NewV7()))}, nil)

		router := userTestRouter(useCase, adminClaims())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/search?q=jane", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing query parameter is rejected", func(t *testing.T) {
		useCase := &mockUserUseCase{}
		router := userTestRouter(useCase, adminClaims())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/search", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeError(t, w.Body.Bytes())
		assert.Equal(t, "query parameter q is required", response.Message)
	})
}

func TestUserHandler_Stats(t *testing.T) {
	useCase := &mockUserUseCase{}
	useCase.On("Stats", mock.Anything).
		Return(&userDomain.Stats{Total: 10, Admins: 2, Blocked: 1, Active: 9}, nil)

	router := userTestRouter(useCase, adminClaims())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":10`)
}

func TestUserHandler_Get(t *testing.T) {
	t.Run("returns the user", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		useCase := &mockUserUseCase{}
		useCase.On("GetByID", mock.Anything, id).Return(testUser(id), nil)

		router := userTestRouter(useCase, adminClaims())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+id.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id.String())
	})

	t.Run("malformed id looks like a missing user", func(t *testing.T) {
		useCase := &mockUserUseCase{}
		router := userTestRouter(useCase, adminClaims())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/not-a-uuid", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		response := decodeError(t, w.Body.Bytes())
		assert.Equal(t, "User not found", response.Message)
		useCase.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown user yields 404", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		useCase := &mockUserUseCase{}
		useCase.On("GetByID", mock.Anything, id).Return(nil, userDomain.ErrUserNotFound)

		router := userTestRouter(useCase, adminClaims())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_Update(t *testing.T) {
	t.Run("applies the partial update", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		actor := adminClaims()
		fullName := "Jane Updated"

		useCase := &mockUserUseCase{}
		useCase.On("Update", mock.Anything, actor, id, userUseCase.UpdateUserInput{
			FullName: &fullName,
		}).Return(testUser(id), nil)

		router := userTestRouter(useCase, actor)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/users/"+id.String(),
			strings.NewReader(`{"fullName":"Jane Updated"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("malformed body yields a validation error", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		useCase := &mockUserUseCase{}
		router := userTestRouter(useCase, adminClaims())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/users/"+id.String(), strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_BlockUnblock(t *testing.T) {
	t.Run("blocks the user", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		actor := adminClaims()

		blocked := testUser(id)
		blocked.IsBlocked = true
		useCase := &mockUserUseCase{}
		useCase.On("Block", mock.Anything, actor, id).Return(blocked, nil)

		router := userTestRouter(useCase, actor)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/users/"+id.String()+"/block", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"isBlocked":true`)
	})

	t.Run("unblocks the user", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		actor := adminClaims()

		useCase := &mockUserUseCase{}
		useCase.On("Unblock", mock.Anything, actor, id).Return(testUser(id), nil)

		router := userTestRouter(useCase, actor)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/users/"+id.String()+"/unblock", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"isBlocked":false`)
	})

	t.Run("self block is rejected as a bad request", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		actor := adminClaims()

		useCase := &mockUserUseCase{}
		useCase.On("Block", mock.Anything, actor, id).Return(nil, userDomain.ErrSelfAction)

		router := userTestRouter(useCase, actor)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/users/"+id.String()+"/block", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeError(t, w.Body.Bytes())
		assert.Equal(t, "You cannot perform this action on your own account", response.Message)
	})
}

func TestUserHandler_Delete(t *testing.T) {
	t.Run("deletes the user", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		actor := adminClaims()

		useCase := &mockUserUseCase{}
		useCase.On("Delete", mock.Anything, actor, id).Return(nil)

		router := userTestRouter(useCase, actor)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/"+id.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "User deleted successfully")
	})

	t.Run("unknown user yields 404", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		actor := adminClaims()

		useCase := &mockUserUseCase{}
		useCase.On("Delete", mock.Anything, actor, id).Return(userDomain.ErrUserNotFound)

		router := userTestRouter(useCase, actor)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
