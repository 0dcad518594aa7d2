package messages

import (
	"time"

	"github.com/google/uuid"

	"github.com/chatterboxhq/chatterbox-backend/internal/users"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
)

// CreateMessageRequest is the payload for sending a message. When
// GenerateAIResponse is set the service follows up with an assistant turn.
type CreateMessageRequest struct {
	Content            string `json:"content" validate:"required"`
	GenerateAIResponse bool   `json:"generate_ai_response"`
}

// MessageDTO is the transport shape for one chat turn.
type MessageDTO struct {
	ID        uuid.UUID      `json:"id"`
	Content   string         `json:"content"`
	ChatID    uuid.UUID      `json:"chat_id"`
	UserID    uuid.UUID      `json:"user_id"`
	User      *users.UserDTO `json:"user,omitempty"`
	IsAI      bool           `json:"is_ai"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MarkReadResponse reports how many rows were transitioned to read.
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

func FromModel(m *models.Message) *MessageDTO {
	if m == nil {
		return nil
	}

	return &MessageDTO{
		ID:        m.ID,
		Content:   m.Content,
		ChatID:    m.ChatID,
		UserID:    m.UserID,
		User:      users.FromModel(m.User),
		IsAI:      m.IsAI,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromModels(list []models.Message) []*MessageDTO {
	out := make([]*MessageDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
