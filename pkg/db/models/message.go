package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single turn in a chat. For AI turns, UserID references the
// user whose action triggered generation rather than a synthetic account.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ChatID    uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_chat_created" json:"chat_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	IsAI      bool      `gorm:"column:is_ai;not null;default:false" json:"is_ai"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_messages_chat_created" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Message) TableName() string { return "messages" }
