package dto

import (
	"time"

	userDomain "github.com/allisson/accounts/internal/user/domain"
)

// birthDateLayout is the wire format for birth dates.
const birthDateLayout = "2006-01-02"

// UserResponse represents a user account in API responses. The password hash is
// never part of any response shape.
type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	BirthDate string    `json:"birthDate"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsBlocked bool      `json:"isBlocked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserResponse maps a user entity to its API representation.
func NewUserResponse(user *userDomain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		FullName:  user.FullName,
		BirthDate: user.BirthDate.Format(birthDateLayout),
		Email:     user.Email,
		Role:      string(user.Role),
		IsBlocked: user.IsBlocked,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserResponses maps a slice of user entities.
func NewUserResponses(users []*userDomain.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = NewUserResponse(user)
	}
	return responses
}

// ListResponse wraps a page of users with its paging parameters.
type ListResponse struct {
	Users  []UserResponse `json:"users"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}
