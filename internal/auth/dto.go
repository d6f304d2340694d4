package auth

import (
	"github.com/basketwise/basketwise-backend/internal/users"
)

// RegisterInput carries the shopper sign-up payload.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
}

// LoginInput carries the credential payload for every role.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries the rotation payload.
type RefreshInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPairDTO is the issued credential set.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionDTO bundles tokens with the authenticated account.
type SessionDTO struct {
	User   users.UserDTO `json:"user"`
	Tokens TokenPairDTO  `json:"tokens"`
}
