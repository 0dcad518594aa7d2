package models

import (
	"time"

	"github.com/chatterboxhq/chatterbox-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity. PasswordHash is only set for
// EMAIL-provider accounts; third-party accounts carry an AuthProviderID that
// is unique per provider.
type User struct {
	ID             uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email          string             `gorm:"type:text;not null;uniqueIndex" json:"email"`
	DisplayName    string             `gorm:"column:display_name;not null" json:"display_name"`
	AvatarURL      *string            `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	Role           enums.UserRole     `gorm:"type:user_role;not null;default:'USER'" json:"role"`
	AuthProvider   enums.AuthProvider `gorm:"type:auth_provider;not null;uniqueIndex:idx_users_provider_identity" json:"auth_provider"`
	AuthProviderID *string            `gorm:"column:auth_provider_id;uniqueIndex:idx_users_provider_identity" json:"-"`
	PasswordHash   *string            `gorm:"column:password_hash" json:"-"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
