package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatParticipant joins one user to one chat. The (chat_id, user_id) pair is
// unique so a user cannot join the same chat twice.
type ChatParticipant struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChatID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_participants_chat_user" json:"chat_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_participants_chat_user;index" json:"user_id"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

func (ChatParticipant) TableName() string { return "chat_participants" }
