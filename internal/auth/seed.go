package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatterboxhq/chatterbox-backend/internal/users"
	"github.com/chatterboxhq/chatterbox-backend/pkg/config"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	"github.com/chatterboxhq/chatterbox-backend/pkg/enums"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
	"github.com/chatterboxhq/chatterbox-backend/pkg/security"
)

type seedRepo interface {
	CountByRole(ctx context.Context, role enums.UserRole) (int64, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// EnsureDefaultAdmin creates the configured administrator account when the
// users table has no admin yet. Skipped when no seed password is configured.
func EnsureDefaultAdmin(ctx context.Context, repo seedRepo, adminCfg config.AdminConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) error {
	count, err := repo.CountByRole(ctx, enums.UserRoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if strings.TrimSpace(adminCfg.SeedPassword) == "" {
		logg.Warn(ctx, "no admin exists and no seed password configured, skipping admin seed")
		return nil
	}

	hash, err := security.HashPassword(adminCfg.SeedPassword, passwordCfg)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	admin, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        strings.ToLower(strings.TrimSpace(adminCfg.SeedEmail)),
		DisplayName:  adminCfg.SeedName,
		Role:         enums.UserRoleAdmin,
		AuthProvider: enums.AuthProviderEmail,
		PasswordHash: &hash,
	})
	if err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}

	logg.Info(logg.WithUserID(ctx, admin.ID.String()), "seeded default admin account")
	return nil
}
