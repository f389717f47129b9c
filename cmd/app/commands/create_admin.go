package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/accounts/internal/app"
	authDomain "github.com/allisson/accounts/internal/auth/domain"
	"github.com/allisson/accounts/internal/config"
	apperrors "github.com/allisson/accounts/internal/errors"
	outboxDomain "github.com/allisson/accounts/internal/outbox/domain"
	userDomain "github.com/allisson/accounts/internal/user/domain"
	appValidation "github.com/allisson/accounts/internal/validation"
)

// RunCreateAdmin creates an ADMIN-role account directly in storage. Registration
// over HTTP always produces USER accounts, so the first admin is bootstrapped
// with this command.
func RunCreateAdmin(ctx context.Context, fullName, birthDate, email, password string, io IOTuple) error {
	if err := validateAdminInput(fullName, birthDate, email, password); err != nil {
		return err
	}

	parsedBirthDate, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return fmt.Errorf("birth date must be a date in YYYY-MM-DD format")
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	passwordService, err := container.PasswordService()
	if err != nil {
		return fmt.Errorf("failed to get password service: %w", err)
	}

	userRepo, err := container.UserRepository()
	if err != nil {
		return fmt.Errorf("failed to get user repository: %w", err)
	}

	outboxRepo, err := container.OutboxRepository()
	if err != nil {
		return fmt.Errorf("failed to get outbox repository: %w", err)
	}

	txManager, err := container.TxManager()
	if err != nil {
		return fmt.Errorf("failed to get tx manager: %w", err)
	}

	hashedPassword, err := passwordService.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		FullName:  strings.TrimSpace(fullName),
		BirthDate: parsedBirthDate,
		Email:     strings.TrimSpace(strings.ToLower(email)),
		Password:  hashedPassword,
		Role:      authDomain.RoleAdmin,
	}

	err = txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}

		event, err := outboxDomain.NewUserEvent(outboxDomain.EventUserCreated, user.ID, user.Email)
		if err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}
		return outboxRepo.Create(ctx, event)
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("an account with email %s already exists", user.Email)
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	fmt.Fprintf(io.Writer, "Admin account created:\n")
	fmt.Fprintf(io.Writer, "  ID:    %s\n", user.ID)
	fmt.Fprintf(io.Writer, "  Email: %s\n", user.Email)

	return nil
}

// validateAdminInput applies the registration rules to the command-line input.
func validateAdminInput(fullName, birthDate, email, password string) error {
	if err := validation.Validate(fullName,
		validation.Required.Error("full name is required"),
		appValidation.NotBlank,
		validation.Length(1, 255).Error("full name must be between 1 and 255 characters"),
	); err != nil {
		return fmt.Errorf("invalid full name: %w", err)
	}

	if err := validation.Validate(birthDate,
		validation.Required.Error("birth date is required"),
		appValidation.BirthDate,
	); err != nil {
		return fmt.Errorf("invalid birth date: %w", err)
	}

	if err := validation.Validate(email,
		validation.Required.Error("email is required"),
		appValidation.NotBlank,
		appValidation.Email,
		validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
	); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	if err := validation.Validate(password,
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
	); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	return nil
}
