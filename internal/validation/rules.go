// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/accounts/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// WeakPasswords lists passwords rejected at registration regardless of their
// composition. Login never consults this list.
var WeakPasswords = []string{
	"password",
	"password1",
	"Password1!",
	"12345678",
	"123456789",
	"qwerty123",
	"qwertyuiop",
	"letmein123",
	"admin123",
	"welcome1",
	"iloveyou",
	"sunshine",
}

// WrapValidationError wraps validation errors as domain ErrValidation, keeping the
// rule message as the client-facing message.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.WithMessage(apperrors.ErrValidation, err.Error())
}

// PasswordStrength validates password meets minimum security requirements
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Validate checks if the password meets the configured requirements
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password is too short",
		)
	}

	if p.RequireUpper && !hasUpperCase(s) {
		return validation.NewError(
			"validation_password_uppercase",
			"password must contain at least one uppercase letter",
		)
	}

	if p.RequireLower && !hasLowerCase(s) {
		return validation.NewError(
			"validation_password_lowercase",
			"password must contain at least one lowercase letter",
		)
	}

	if p.RequireNumber && !hasNumber(s) {
		return validation.NewError("validation_password_number", "password must contain at least one number")
	}

	if p.RequireSpecial && !hasSpecialChar(s) {
		return validation.NewError(
			"validation_password_special",
			"password must contain at least one special character",
		)
	}

	return nil
}

// NotWeakPassword rejects passwords present in the weak-password list.
// Comparison is case-insensitive to catch trivial capitalization variants.
var NotWeakPassword = validation.NewStringRuleWithError(
	func(s string) bool {
		for _, weak := range WeakPasswords {
			if strings.EqualFold(s, weak) {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_password_weak", "password is too common, choose a stronger one"),
)

// hasUpperCase checks if string contains uppercase letters
func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// hasLowerCase checks if string contains lowercase letters
func hasLowerCase(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// hasNumber checks if string contains numbers
func hasNumber(s string) bool {
	for _, r := range s {
		if unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// hasSpecialChar checks if string contains special characters
func hasSpecialChar(s string) bool {
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// BirthDate validates a YYYY-MM-DD date string.
var birthDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// BirthDate validates that a string is an ISO calendar date.
var BirthDate = validation.NewStringRuleWithError(
	func(s string) bool {
		return birthDateRegex.MatchString(s)
	},
	validation.NewError("validation_birth_date", "must be a date in YYYY-MM-DD format"),
)
