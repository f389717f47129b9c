// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	"github.com/allisson/accounts/internal/database"
	apperrors "github.com/allisson/accounts/internal/errors"
	outboxDomain "github.com/allisson/accounts/internal/outbox/domain"
	"github.com/allisson/accounts/internal/user/domain"
	appValidation "github.com/allisson/accounts/internal/validation"
)

// BirthDateLayout is the wire format for birth dates.
const BirthDateLayout = "2006-01-02"

// UpdateUserInput contains the optional fields of a profile update. Nil pointers
// mean "leave unchanged".
type UpdateUserInput struct {
	FullName  *string `json:"fullName"`
	BirthDate *string `json:"birthDate"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	IsBlocked *bool   `json:"isBlocked"`
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Search(ctx context.Context, query string, offset, limit int) ([]*domain.User, error)
	Stats(ctx context.Context) (*domain.Stats, error)
	Update(ctx context.Context, actor *authDomain.Claims, id uuid.UUID, input UpdateUserInput) (*domain.User, error)
	Block(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) (*domain.User, error)
	Unblock(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) (*domain.User, error)
	Delete(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) error
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Search(ctx context.Context, query string, offset, limit int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*domain.Stats, error)
}

// OutboxEventRepository interface defines outbox event repository operations
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager  database.TxManager
	userRepo   UserRepository
	outboxRepo OutboxEventRepository
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	outboxRepo OutboxEventRepository,
) *UserUseCase {
	return &UserUseCase{
		txManager:  txManager,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
	}
}

// GetByID retrieves a user by ID
func (uc *UserUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// List retrieves users with pagination
func (uc *UserUseCase) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return uc.userRepo.List(ctx, offset, limit)
}

// Search retrieves users matching the query string by name or email
func (uc *UserUseCase) Search(ctx context.Context, query string, offset, limit int) ([]*domain.User, error) {
	return uc.userRepo.Search(ctx, strings.TrimSpace(query), offset, limit)
}

// Stats returns aggregate account counts
func (uc *UserUseCase) Stats(ctx context.Context) (*domain.Stats, error) {
	return uc.userRepo.Stats(ctx)
}

// validateUpdateInput validates the fields present in an update request.
// Absent (nil) fields are left alone; present fields must be valid.
func (uc *UserUseCase) validateUpdateInput(input UpdateUserInput) error {
	if input.FullName != nil {
		err := validation.Validate(*input.FullName,
			validation.Required.Error("full name must not be blank"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("full name must be between 1 and 255 characters"),
		)
		if err != nil {
			return appValidation.WrapValidationError(err)
		}
	}
	if input.BirthDate != nil {
		err := validation.Validate(*input.BirthDate,
			validation.Required.Error("birth date must not be blank"),
			appValidation.BirthDate,
		)
		if err != nil {
			return appValidation.WrapValidationError(err)
		}
	}
	if input.Email != nil {
		err := validation.Validate(*input.Email,
			validation.Required.Error("email must not be blank"),
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		)
		if err != nil {
			return appValidation.WrapValidationError(err)
		}
	}
	return nil
}

// Update applies a partial update to a user. The authorization layer has already
// rejected non-admin payloads containing disallowed fields; the role check here
// is defensive so a misordered pipeline can never escalate privileges.
func (uc *UserUseCase) Update(
	ctx context.Context,
	actor *authDomain.Claims,
	id uuid.UUID,
	input UpdateUserInput,
) (*domain.User, error) {
	if err := uc.validateUpdateInput(input); err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		var offending []string
		if input.Role != nil {
			offending = append(offending, "role")
		}
		if input.IsBlocked != nil {
			offending = append(offending, "isBlocked")
		}
		if len(offending) > 0 {
			sort.Strings(offending)
			return nil, apperrors.WithMessage(apperrors.ErrForbidden,
				fmt.Sprintf("You are not allowed to update the following fields: %s", strings.Join(offending, ", ")))
		}
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.BirthDate != nil {
		birthDate, err := time.Parse(BirthDateLayout, *input.BirthDate)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "birthDate must be a date in YYYY-MM-DD format")
		}
		user.BirthDate = birthDate
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(strings.ToLower(*input.Email))
	}
	if input.Role != nil {
		role := authDomain.Role(*input.Role)
		if !role.IsValid() {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "role must be either ADMIN or USER")
		}
		user.Role = role
	}
	if input.IsBlocked != nil {
		user.IsBlocked = *input.IsBlocked
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Block marks a user account as blocked and records a user.blocked event.
// Blocking your own account is a request-shape error, not a permission error.
func (uc *UserUseCase) Block(
	ctx context.Context,
	actor *authDomain.Claims,
	id uuid.UUID,
) (*domain.User, error) {
	return uc.setBlocked(ctx, actor, id, true, outboxDomain.EventUserBlocked)
}

// Unblock clears the blocked flag and records a user.unblocked event.
func (uc *UserUseCase) Unblock(
	ctx context.Context,
	actor *authDomain.Claims,
	id uuid.UUID,
) (*domain.User, error) {
	return uc.setBlocked(ctx, actor, id, false, outboxDomain.EventUserUnblocked)
}

// Delete removes a user account and records a user.deleted event.
func (uc *UserUseCase) Delete(ctx context.Context, actor *authDomain.Claims, id uuid.UUID) error {
	if actor.UserID == id.String() {
		return domain.ErrSelfAction
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Delete(ctx, user.ID); err != nil {
			return err
		}

		event, err := outboxDomain.NewUserEvent(outboxDomain.EventUserDeleted, user.ID, user.Email)
		if err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}
		return uc.outboxRepo.Create(ctx, event)
	})
}

// setBlocked applies a block/unblock state change with its lifecycle event.
func (uc *UserUseCase) setBlocked(
	ctx context.Context,
	actor *authDomain.Claims,
	id uuid.UUID,
	blocked bool,
	eventType string,
) (*domain.User, error) {
	if actor.UserID == id.String() {
		return nil, domain.ErrSelfAction
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.SetBlocked(ctx, user.ID, blocked); err != nil {
			return err
		}

		event, err := outboxDomain.NewUserEvent(eventType, user.ID, user.Email)
		if err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}
		return uc.outboxRepo.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	user.IsBlocked = blocked
	return user, nil
}
