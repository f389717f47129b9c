package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	"github.com/allisson/accounts/internal/metrics"
	"github.com/allisson/accounts/internal/user/domain"
)

// useCaseWithMetrics decorates the user UseCase with metrics instrumentation.
type useCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps a user UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &useCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the counter and duration for one user operation.
func (u *useCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "users", operation, status)
	u.metrics.RecordDuration(ctx, "users", operation, time.Since(start), status)
}

// GetByID records metrics for user retrieval.
func (u *useCaseWithMetrics) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.GetByID(ctx, id)
	u.record(ctx, "user_get", start, err)
	return user, err
}

// List records metrics for user listing.
func (u *useCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	start := time.Now()
	users, err := u.next.List(ctx, offset, limit)
	u.record(ctx, "user_list", start, err)
	return users, err
}

// Search records metrics for user search.
func (u *useCaseWithMetrics) Search(
	ctx context.Context,
	query string,
	offset, limit int,
) ([]*domain.User, error) {
	start := time.Now()
	users, err := u.next.Search(ctx, query, offset, limit)
	u.record(ctx, "user_search", start, err)
	return users, err
}

// Stats records metrics for aggregate count retrieval.
func (u *useCaseWithMetrics) Stats(ctx context.Context) (*domain.Stats, error) {
	start := time.Now()
	stats, err := u.next.Stats(ctx)
	u.record(ctx, "user_stats", start, err)
	return stats, err
}

// Update records metrics for profile updates.
func (u *useCaseWithMetrics) Update(
	ctx context.Context,
	actor *authDomain.Claims,
	id uuid.UUID,
	input UpdateUserInput,
) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Update(ctx, actor, id, input)
	u.record(ctx, "user_update", start, err)
	return user, err
}

// Block records metrics for account blocking.
func (u *useCaseWithMetrics) Block(
	ctx context.Context,
	actor *authDomain.Claims,
	id uuid.UUID,
) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Block(ctx, actor, id)
	u.record(ctx, "user_block", start, err)
	return user, err
}

// Unblock records metrics for account unblocking.
func (u *useCaseWithMetrics) Unblock(
	ctx context.Context,
	actor *authDomain.Claims,
	id uuid.UUID,
) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Unblock(ctx, actor, id)
	u.record(ctx, "user_unblock", start, err)
	return user, err
}

// Delete records metrics for account deletion.
func (u *useCaseWithMetrics) Delete(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) error {
	start := time.Now()
	err := u.next.Delete(ctx, actor, id)
	u.record(ctx, "user_delete", start, err)
	return err
}
