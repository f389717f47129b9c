// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/accounts/internal/validation"
)

// RegisterRequest contains the parameters for creating a new account.
// Field-level rules (password strength, birth date format) are enforced by the
// auth use case; the request shape only needs to deserialize.
type RegisterRequest struct {
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest contains the credentials for authenticating an account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			customValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
}

// RefreshRequest contains the refresh token to redeem for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate checks if the refresh request is valid.
func (r *RefreshRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken,
			validation.Required.Error("refreshToken is required"),
			customValidation.NotBlank,
		),
	)
}
