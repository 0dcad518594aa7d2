package chats

import (
	"time"

	"github.com/google/uuid"

	"github.com/chatterboxhq/chatterbox-backend/internal/users"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
)

// CreateChatRequest is the payload for creating a chat. The owner is always a
// participant regardless of whether the list mentions them.
type CreateChatRequest struct {
	Title          string      `json:"title" validate:"required"`
	Description    *string     `json:"description,omitempty"`
	IsGroup        bool        `json:"is_group"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

// UpdateChatRequest carries the mutable chat fields. Nil fields are left untouched.
type UpdateChatRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
}

// AddParticipantRequest names the user to join the chat.
type AddParticipantRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// ParticipantDTO is the transport shape for one chat membership.
type ParticipantDTO struct {
	UserID   uuid.UUID      `json:"user_id"`
	User     *users.UserDTO `json:"user,omitempty"`
	JoinedAt time.Time      `json:"joined_at"`
}

// ChatDTO is the transport shape for a chat with its membership.
type ChatDTO struct {
	ID           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	Description  *string          `json:"description,omitempty"`
	IsGroup      bool             `json:"is_group"`
	OwnerID      uuid.UUID        `json:"owner_id"`
	Participants []ParticipantDTO `json:"participants"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func participantFromModel(p *models.ChatParticipant) ParticipantDTO {
	return ParticipantDTO{
		UserID:   p.UserID,
		User:     users.FromModel(p.User),
		JoinedAt: p.JoinedAt,
	}
}

func FromModel(c *models.Chat) *ChatDTO {
	if c == nil {
		return nil
	}

	participants := make([]ParticipantDTO, 0, len(c.Participants))
	for i := range c.Participants {
		participants = append(participants, participantFromModel(&c.Participants[i]))
	}

	return &ChatDTO{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		IsGroup:      c.IsGroup,
		OwnerID:      c.OwnerID,
		Participants: participants,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func FromModels(list []models.Chat) []*ChatDTO {
	out := make([]*ChatDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
