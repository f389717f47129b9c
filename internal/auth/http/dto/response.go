package dto

import (
	authDomain "github.com/allisson/accounts/internal/auth/domain"
	userDomain "github.com/allisson/accounts/internal/user/domain"
	userDTO "github.com/allisson/accounts/internal/user/http/dto"
)

// AuthResponse bundles the issued token pair with the account it belongs to.
// Returned by register and login.
type AuthResponse struct {
	Token            string               `json:"token"`
	RefreshToken     string               `json:"refreshToken"`
	ExpiresIn        int64                `json:"expiresIn"`
	RefreshExpiresIn int64                `json:"refreshExpiresIn"`
	User             userDTO.UserResponse `json:"user"`
}

// NewAuthResponse builds the authentication payload from a token pair and user.
func NewAuthResponse(tokens *authDomain.TokenPair, user *userDomain.User) AuthResponse {
	return AuthResponse{
		Token:            tokens.AccessToken,
		RefreshToken:     tokens.RefreshToken,
		ExpiresIn:        tokens.AccessTokenExpiresIn,
		RefreshExpiresIn: tokens.RefreshTokenExpiresIn,
		User:             userDTO.NewUserResponse(user),
	}
}

// TokenResponse carries a refreshed token pair without user data.
type TokenResponse struct {
	Token            string `json:"token"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
}

// NewTokenResponse builds the token payload from an issued pair.
func NewTokenResponse(tokens *authDomain.TokenPair) TokenResponse {
	return TokenResponse{
		Token:            tokens.AccessToken,
		RefreshToken:     tokens.RefreshToken,
		ExpiresIn:        tokens.AccessTokenExpiresIn,
		RefreshExpiresIn: tokens.RefreshTokenExpiresIn,
	}
}
