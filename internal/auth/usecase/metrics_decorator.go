package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	"github.com/allisson/accounts/internal/metrics"
	userDomain "github.com/allisson/accounts/internal/user/domain"
)

// useCaseWithMetrics decorates the auth UseCase with metrics instrumentation.
type useCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps an auth UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &useCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the counter and duration for one auth operation.
func (u *useCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "auth", operation, status)
	u.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// Register records metrics for account registration.
func (u *useCaseWithMetrics) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	start := time.Now()
	output, err := u.next.Register(ctx, input)
	u.record(ctx, "register", start, err)
	return output, err
}

// Login records metrics for credential authentication.
func (u *useCaseWithMetrics) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	start := time.Now()
	output, err := u.next.Login(ctx, input)
	u.record(ctx, "login", start, err)
	return output, err
}

// Refresh records metrics for token refresh.
func (u *useCaseWithMetrics) Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error) {
	start := time.Now()
	tokens, err := u.next.Refresh(ctx, refreshToken)
	u.record(ctx, "refresh", start, err)
	return tokens, err
}

// Me records metrics for profile retrieval.
func (u *useCaseWithMetrics) Me(ctx context.Context, claims *authDomain.Claims) (*userDomain.User, error) {
	start := time.Now()
	user, err := u.next.Me(ctx, claims)
	u.record(ctx, "me", start, err)
	return user, err
}
