package messages

import (
	"context"

	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes message persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a messages repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one message row.
func (r *Repository) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListRecent returns up to limit messages newest-first after skipping offset.
// Callers that present history to a reader reverse the slice.
func (r *Repository) ListRecent(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// MarkRead flips is_read for every unread message in the chat not authored by
// the viewer, returning the number of rows affected.
func (r *Repository) MarkRead(ctx context.Context, chatID, viewerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("chat_id = ? AND user_id <> ? AND is_read = ?", chatID, viewerID, false).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count returns the total number of messages.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Count(&total).Error
	return total, err
}

// CountAI returns how many messages were AI-generated.
func (r *Repository) CountAI(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("is_ai = ?", true).Count(&total).Error
	return total, err
}
