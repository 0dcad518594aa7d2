package users

import (
	"context"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	"github.com/chatterboxhq/chatterbox-backend/pkg/enums"
	"github.com/chatterboxhq/chatterbox-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByProviderIdentity resolves a third-party account by its provider-scoped subject.
func (r *Repository) FindByProviderIdentity(ctx context.Context, provider enums.AuthProvider, providerID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("auth_provider = ? AND auth_provider_id = ?", provider, providerID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies the non-nil profile fields and returns the refreshed row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*models.User, error) {
	updates := map[string]any{}
	if dto.DisplayName != nil {
		updates["display_name"] = *dto.DisplayName
	}
	if dto.AvatarURL != nil {
		updates["avatar_url"] = *dto.AvatarURL
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// UpdateProviderIdentity points an existing account at a third-party
// identity, used when a provider login matches a known email.
func (r *Repository) UpdateProviderIdentity(ctx context.Context, id uuid.UUID, provider enums.AuthProvider, providerID string) (*models.User, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"auth_provider":    provider,
			"auth_provider_id": providerID,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// UpdateRole changes the user's role.
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the user row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one page of users ordered by creation time plus the total count.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pagination.NormalizeAdminLimit(page.Limit)).
		Offset(pagination.NormalizeOffset(page.Offset)).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Count returns the total number of users.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error
	return total, err
}

// CountByRole returns how many users hold the given role.
func (r *Repository) CountByRole(ctx context.Context, role enums.UserRole) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&total).Error
	return total, err
}

// CountByProvider groups the user base by auth provider.
func (r *Repository) CountByProvider(ctx context.Context) (map[enums.AuthProvider]int64, error) {
	var rows []struct {
		AuthProvider enums.AuthProvider
		Total        int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("auth_provider, COUNT(*) AS total").
		Group("auth_provider").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.AuthProvider]int64, len(rows))
	for _, row := range rows {
		counts[row.AuthProvider] = row.Total
	}
	return counts, nil
}

// CountCreatedSince returns how many users signed up at or after the cutoff.
func (r *Repository) CountCreatedSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("created_at >= ?", cutoff).Count(&total).Error
	return total, err
}
