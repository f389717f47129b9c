// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	authService "github.com/allisson/accounts/internal/auth/service"
	"github.com/allisson/accounts/internal/database"
	apperrors "github.com/allisson/accounts/internal/errors"
	outboxDomain "github.com/allisson/accounts/internal/outbox/domain"
	userDomain "github.com/allisson/accounts/internal/user/domain"
	appValidation "github.com/allisson/accounts/internal/validation"
)

// RegisterInput contains the input data for user registration
type RegisterInput struct {
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginInput contains the input data for user login
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthOutput bundles the authenticated user with the issued token pair.
type AuthOutput struct {
	User   *userDomain.User
	Tokens *authDomain.TokenPair
}

// UseCase defines the interface for authentication business logic operations
type UseCase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)
	Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error)
	Me(ctx context.Context, claims *authDomain.Claims) (*userDomain.User, error)
}

// UserRepository defines the user persistence operations the auth flow needs.
type UserRepository interface {
	Create(ctx context.Context, user *userDomain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// OutboxEventRepository defines outbox event repository operations
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// AuthUseCase handles registration, login and token refresh.
type AuthUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	outboxRepo      OutboxEventRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
}

// NewAuthUseCase creates a new AuthUseCase
func NewAuthUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	outboxRepo OutboxEventRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
) *AuthUseCase {
	return &AuthUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		outboxRepo:      outboxRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// validateRegisterInput validates the registration input.
// Password strength requirements: min 8 chars, uppercase, lowercase, number,
// special char, and not present in the weak-password list.
func (uc *AuthUseCase) validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.FullName,
			validation.Required.Error("full name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("full name must be between 1 and 255 characters"),
		),
		validation.Field(&input.BirthDate,
			validation.Required.Error("birth date is required"),
			appValidation.BirthDate,
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
			appValidation.NotWeakPassword,
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new USER-role account and issues its first token pair.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, err
	}

	birthDate, err := time.Parse("2006-01-02", input.BirthDate)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "birthDate must be a date in YYYY-MM-DD format")
	}

	hashedPassword, err := uc.passwordService.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		FullName:  strings.TrimSpace(input.FullName),
		BirthDate: birthDate,
		Email:     strings.TrimSpace(strings.ToLower(input.Email)),
		Password:  hashedPassword,
		Role:      authDomain.RoleUser,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		// Repository returns ErrUserAlreadyExists on duplicate email
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}

		event, err := outboxDomain.NewUserEvent(outboxDomain.EventUserCreated, user.ID, user.Email)
		if err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}
		return uc.outboxRepo.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	tokens, err := uc.tokenService.IssuePair(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{User: user, Tokens: tokens}, nil
}

// Login authenticates email/password credentials and issues a token pair.
// Unknown email and wrong password produce the same error so the response never
// reveals whether an email is registered.
func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !uc.passwordService.Verify(input.Password, user.Password) {
		return nil, authDomain.ErrInvalidCredentials
	}

	if user.IsBlocked {
		return nil, authDomain.ErrAccountBlocked
	}

	tokens, err := uc.tokenService.IssuePair(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{User: user, Tokens: tokens}, nil
}

// Refresh redeems a refresh token for a fresh token pair. The user's current
// storage attributes are re-read so a role change or block takes effect here.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error) {
	claims, err := uc.tokenService.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != authDomain.TokenTypeRefresh {
		return nil, authDomain.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, authDomain.ErrTokenInvalid
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrTokenInvalid
		}
		return nil, err
	}

	if user.IsBlocked {
		return nil, authDomain.ErrAccountBlocked
	}

	return uc.tokenService.IssuePair(user.ID.String(), user.Email, user.Role)
}

// Me returns the storage-backed profile for the authenticated claim.
func (uc *AuthUseCase) Me(ctx context.Context, claims *authDomain.Claims) (*userDomain.User, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, authDomain.ErrTokenInvalid
	}
	return uc.userRepo.GetByID(ctx, userID)
}
