package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	"github.com/chatterboxhq/chatterbox-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credentials and provider identity.
type UserDTO struct {
	ID           uuid.UUID          `json:"id"`
	Email        string             `json:"email"`
	DisplayName  string             `json:"display_name"`
	AvatarURL    *string            `json:"avatar_url,omitempty"`
	Role         enums.UserRole     `json:"role"`
	AuthProvider enums.AuthProvider `json:"auth_provider"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email          string
	DisplayName    string
	AvatarURL      *string
	Role           enums.UserRole
	AuthProvider   enums.AuthProvider
	AuthProviderID *string
	PasswordHash   *string
}

// UpdateUserDTO carries the mutable profile fields. Nil fields are left untouched.
type UpdateUserDTO struct {
	DisplayName *string
	AvatarURL   *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		AvatarURL:    u.AvatarURL,
		Role:         u.Role,
		AuthProvider: u.AuthProvider,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromModels(list []models.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleUser
	}
	provider := c.AuthProvider
	if !provider.IsValid() {
		provider = enums.AuthProviderEmail
	}

	return &models.User{
		Email:          c.Email,
		DisplayName:    c.DisplayName,
		AvatarURL:      c.AvatarURL,
		Role:           role,
		AuthProvider:   provider,
		AuthProviderID: c.AuthProviderID,
		PasswordHash:   c.PasswordHash,
	}
}
