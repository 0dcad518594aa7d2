package auth

import (
	"github.com/chatterboxhq/chatterbox-backend/internal/users"
)

// RegisterRequest captures the payload for creating a password account.
type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	DisplayName string  `json:"display_name" validate:"required"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OAuthLoginRequest carries the provider-issued identity token.
type OAuthLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// RefreshRequest rotates a refresh token bound to an (expired) access token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse contains the token pair and user produced by a successful
// register, login, or refresh.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
