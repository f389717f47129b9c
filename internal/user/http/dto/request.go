// Package dto provides data transfer objects for user HTTP request and response handling.
package dto

import (
	userUseCase "github.com/allisson/accounts/internal/user/usecase"
)

// UpdateUserRequest contains the optional fields of a profile update. Absent
// fields are nil and leave the stored value unchanged. Role and isBlocked are
// accepted only from admins; the authorization layer rejects them for everyone
// else before this shape is ever bound.
type UpdateUserRequest struct {
	FullName  *string `json:"fullName"`
	BirthDate *string `json:"birthDate"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	IsBlocked *bool   `json:"isBlocked"`
}

// ToInput maps the request to the use case input shape.
func (r *UpdateUserRequest) ToInput() userUseCase.UpdateUserInput {
	return userUseCase.UpdateUserInput{
		FullName:  r.FullName,
		BirthDate: r.BirthDate,
		Email:     r.Email,
		Role:      r.Role,
		IsBlocked: r.IsBlocked,
	}
}
