package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	apperrors "github.com/allisson/accounts/internal/errors"
	outboxDomain "github.com/allisson/accounts/internal/outbox/domain"
	"github.com/allisson/accounts/internal/user/domain"
)

// mockTxManager executes the transaction function directly.
type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepository) Search(ctx context.Context, query string, offset, limit int) ([]*domain.User, error) {
	args := m.Called(ctx, query, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	args := m.Called(ctx, id, blocked)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

type mockOutboxRepository struct {
	mock.Mock
}

func (m *mockOutboxRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type userUseCaseMocks struct {
	txManager  *mockTxManager
	userRepo   *mockUserRepository
	outboxRepo *mockOutboxRepository
}

func newUserUseCase() (*UserUseCase, *userUseCaseMocks) {
	mocks := &userUseCaseMocks{
		txManager:  &mockTxManager{},
		userRepo:   &mockUserRepository{},
		outboxRepo: &mockOutboxRepository{},
	}
	return NewUserUseCase(mocks.txManager, mocks.userRepo, mocks.outboxRepo), mocks
}

func adminClaims() *authDomain.Claims {
	return &authDomain.Claims{
		UserID: uuid.Must(uuid.NewV7()).String(),
		Role:   authDomain.RoleAdmin,
	}
}

func userClaims(userID string) *authDomain.Claims {
	return &authDomain.Claims{
		UserID: userID,
		Role:   authDomain.RoleUser,
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func storedUser(id uuid.UUID) *domain.User {
	return &domain.User{
		ID:       id,
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Role:     authDomain.RoleUser,
	}
}

func TestUserUseCase_Update(t *testing.T) {
	ctx := context.Background()
	targetID := uuid.Must(uuid.NewV7())

	t.Run("owner updates profile fields", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		mocks.userRepo.On("GetByID", ctx, targetID).Return(storedUser(targetID), nil)
		mocks.userRepo.On("Update", ctx, mock.MatchedBy(func(user *domain.User) bool {
			return user.FullName == "Jane Updated" && user.Email == "new@example.com"
		})).Return(nil)

		updated, err := uc.Update(ctx, userClaims(targetID.String()), targetID, UpdateUserInput{
			FullName: strPtr("  Jane Updated  "),
			Email:    strPtr("NEW@example.com"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Jane Updated", updated.FullName)
		assert.Equal(t, "new@example.com", updated.Email)
	})

	t.Run("non-admin cannot change role or blocked flag", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		_, err := uc.Update(ctx, userClaims(targetID.String()), targetID, UpdateUserInput{
			Role:      strPtr("ADMIN"),
			IsBlocked: boolPtr(true),
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
		assert.Contains(t, err.Error(), "isBlocked, role")
		mocks.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("admin can change role and blocked flag", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		mocks.userRepo.On("GetByID", ctx, targetID).Return(storedUser(targetID), nil)
		mocks.userRepo.On("Update", ctx, mock.MatchedBy(func(user *domain.User) bool {
			return user.Role == authDomain.RoleAdmin && user.IsBlocked
		})).Return(nil)

		updated, err := uc.Update(ctx, adminClaims(), targetID, UpdateUserInput{
			Role:      strPtr("ADMIN"),
			IsBlocked: boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, authDomain.RoleAdmin, updated.Role)
		assert.True(t, updated.IsBlocked)
	})

	t.Run("rejects an unknown role value", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		mocks.userRepo.On("GetByID", ctx, targetID).Return(storedUser(targetID), nil)

		_, err := uc.Update(ctx, adminClaims(), targetID, UpdateUserInput{
			Role: strPtr("SUPERUSER"),
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("rejects an invalid email", func(t *testing.T) {
		uc, _ := newUserUseCase()

		_, err := uc.Update(ctx, adminClaims(), targetID, UpdateUserInput{
			Email: strPtr("not-an-email"),
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("rejects a blank full name", func(t *testing.T) {
		uc, _ := newUserUseCase()

		_, err := uc.Update(ctx, adminClaims(), targetID, UpdateUserInput{
			FullName: strPtr("   "),
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("rejects a malformed birth date", func(t *testing.T) {
		uc, _ := newUserUseCase()

		_, err := uc.Update(ctx, adminClaims(), targetID, UpdateUserInput{
			BirthDate: strPtr("1990/05/15"),
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("propagates user not found", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		mocks.userRepo.On("GetByID", ctx, targetID).Return(nil, domain.ErrUserNotFound)

		_, err := uc.Update(ctx, adminClaims(), targetID, UpdateUserInput{
			FullName: strPtr("Jane"),
		})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserUseCase_Block(t *testing.T) {
	ctx := context.Background()
	targetID := uuid.Must(uuid.NewV7())

	t.Run("blocks the user and records the event", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		mocks.userRepo.On("GetByID", ctx, targetID).Return(storedUser(targetID), nil)
		mocks.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		mocks.userRepo.On("SetBlocked", mock.Anything, targetID, true).Return(nil)
		mocks.outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(event *outboxDomain.OutboxEvent) bool {
			return event.EventType == outboxDomain.EventUserBlocked
		})).Return(nil)

		blocked, err := uc.Block(ctx, adminClaims(), targetID)
		require.NoError(t, err)
		assert.True(t, blocked.IsBlocked)
		mocks.outboxRepo.AssertExpectations(t)
	})

	t.Run("blocking your own account is rejected", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		actor := adminClaims()
		selfID := uuid.MustParse(actor.UserID)

		_, err := uc.Block(ctx, actor, selfID)
		assert.ErrorIs(t, err, domain.ErrSelfAction)
		assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
		mocks.userRepo.AssertNotCalled(t, "SetBlocked", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserUseCase_Unblock(t *testing.T) {
	ctx := context.Background()
	targetID := uuid.Must(uuid.NewV7())

	t.Run("clears the blocked flag and records the event", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		blocked := storedUser(targetID)
		blocked.IsBlocked = true
		mocks.userRepo.On("GetByID", ctx, targetID).Return(blocked, nil)
		mocks.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		mocks.userRepo.On("SetBlocked", mock.Anything, targetID, false).Return(nil)
		mocks.outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(event *outboxDomain.OutboxEvent) bool {
			return event.EventType == outboxDomain.EventUserUnblocked
		})).Return(nil)

		unblocked, err := uc.Unblock(ctx, adminClaims(), targetID)
		require.NoError(t, err)
		assert.False(t, unblocked.IsBlocked)
	})

	t.Run("unblocking your own account is rejected", func(t *testing.T) {
		uc, _ := newUserUseCase()

		actor := adminClaims()
		selfID := uuid.MustParse(actor.UserID)

		_, err := uc.Unblock(ctx, actor, selfID)
		assert.ErrorIs(t, err, domain.ErrSelfAction)
	})
}

func TestUserUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	targetID := uuid.Must(uuid.NewV7())

	t.Run("deletes the user and records the event", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		mocks.userRepo.On("GetByID", ctx, targetID).Return(storedUser(targetID), nil)
		mocks.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		mocks.userRepo.On("Delete", mock.Anything, targetID).Return(nil)
		mocks.outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(event *outboxDomain.OutboxEvent) bool {
			return event.EventType == outboxDomain.EventUserDeleted
		})).Return(nil)

		err := uc.Delete(ctx, adminClaims(), targetID)
		require.NoError(t, err)
		mocks.outboxRepo.AssertExpectations(t)
	})

	t.Run("deleting your own account is rejected", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		actor := adminClaims()
		selfID := uuid.MustParse(actor.UserID)

		err := uc.Delete(ctx, actor, selfID)
		assert.ErrorIs(t, err, domain.ErrSelfAction)
		mocks.userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("propagates user not found", func(t *testing.T) {
		uc, mocks := newUserUseCase()

		mocks.userRepo.On("GetByID", ctx, targetID).Return(nil, domain.ErrUserNotFound)

		err := uc.Delete(ctx, adminClaims(), targetID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserUseCase_Search(t *testing.T) {
	ctx := context.Background()

	uc, mocks := newUserUseCase()

	users := []*domain.User{storedUser(uuid.Must(uuid.NewV7()))}
	mocks.userRepo.On("Search", ctx, "jane", 0, 10).Return(users, nil)

	// The query is trimmed before hitting storage.
	got, err := uc.Search(ctx, "  jane  ", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, users, got)
}

func TestUserUseCase_Stats(t *testing.T) {
	ctx := context.Background()

	uc, mocks := newUserUseCase()

	stats := &domain.Stats{Total: 10, Admins: 2, Blocked: 1, Active: 9}
	mocks.userRepo.On("Stats", ctx).Return(stats, nil)

	got, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}
