package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a conversation owned by one user. The owner always holds a
// participant row; participant management never removes it.
type Chat struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string            `gorm:"type:text;not null" json:"title"`
	Description  *string           `gorm:"type:text" json:"description,omitempty"`
	IsGroup      bool              `gorm:"column:is_group;not null;default:false" json:"is_group"`
	OwnerID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner        *User             `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Participants []ChatParticipant `gorm:"foreignKey:ChatID" json:"participants,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Chat) TableName() string { return "chats" }
