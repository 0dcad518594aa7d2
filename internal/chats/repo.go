package chats

import (
	"context"

	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	"github.com/chatterboxhq/chatterbox-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes chat and participant persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a chats repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new chat row.
func (r *Repository) Create(ctx context.Context, chat *models.Chat) error {
	if chat.ID == uuid.Nil {
		chat.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(chat).Error
}

// FindByID loads a chat with its participants (and their users) preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Participants.User").
		First(&chat, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListForUser returns every chat the user participates in, most recent first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Chat, error) {
	var list []models.Chat
	err := r.db.WithContext(ctx).
		Joins("JOIN chat_participants cp ON cp.chat_id = chats.id").
		Where("cp.user_id = ?", userID).
		Preload("Participants").
		Preload("Participants.User").
		Order("chats.updated_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Update applies the provided column updates and reports whether a row matched.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.Chat{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the chat row. Participant and message rows cascade in the DB.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Chat{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddParticipant inserts one membership row. Unique violation surfaces as-is.
func (r *Repository) AddParticipant(ctx context.Context, chatID, userID uuid.UUID) (*models.ChatParticipant, error) {
	participant := &models.ChatParticipant{
		ID:     uuid.New(),
		ChatID: chatID,
		UserID: userID,
	}
	if err := r.db.WithContext(ctx).Create(participant).Error; err != nil {
		return nil, err
	}
	return participant, nil
}

// RemoveParticipant deletes the membership row for the pair.
func (r *Repository) RemoveParticipant(ctx context.Context, chatID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Delete(&models.ChatParticipant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsParticipant reports whether the user holds a membership row in the chat.
func (r *Repository) IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns one page of all chats ordered by creation time plus the total count.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.Chat, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Chat{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Chat
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Order("created_at DESC").
		Limit(pagination.NormalizeAdminLimit(page.Limit)).
		Offset(pagination.NormalizeOffset(page.Offset)).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Count returns the total number of chats.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Chat{}).Count(&total).Error
	return total, err
}
