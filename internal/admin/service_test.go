package admin

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/users"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	"github.com/chatterboxhq/chatterbox-backend/pkg/enums"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
	"github.com/chatterboxhq/chatterbox-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeAdminUserRepo struct {
	byID map[uuid.UUID]*models.User
}

func newFakeAdminUserRepo() *fakeAdminUserRepo {
	return &fakeAdminUserRepo{byID: map[uuid.UUID]*models.User{}}
}

func (f *fakeAdminUserRepo) add(role enums.UserRole) *models.User {
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		Role:         role,
		AuthProvider: enums.AuthProviderEmail,
		CreatedAt:    time.Now(),
	}
	f.byID[user.ID] = user
	return user
}

func (f *fakeAdminUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAdminUserRepo) Update(_ context.Context, id uuid.UUID, dto users.UpdateUserDTO) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if dto.DisplayName != nil {
		user.DisplayName = *dto.DisplayName
	}
	if dto.AvatarURL != nil {
		user.AvatarURL = dto.AvatarURL
	}
	copied := *user
	return &copied, nil
}

func (f *fakeAdminUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role enums.UserRole) error {
	user, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Role = role
	return nil
}

func (f *fakeAdminUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAdminUserRepo) List(_ context.Context, _ pagination.Params) ([]models.User, int64, error) {
	var list []models.User
	for _, user := range f.byID {
		list = append(list, *user)
	}
	return list, int64(len(list)), nil
}

func (f *fakeAdminUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakeAdminUserRepo) CountByRole(_ context.Context, role enums.UserRole) (int64, error) {
	var count int64
	for _, user := range f.byID {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (f *fakeAdminUserRepo) CountByProvider(_ context.Context) (map[enums.AuthProvider]int64, error) {
	counts := map[enums.AuthProvider]int64{}
	for _, user := range f.byID {
		counts[user.AuthProvider]++
	}
	return counts, nil
}

func (f *fakeAdminUserRepo) CountCreatedSince(_ context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for _, user := range f.byID {
		if !user.CreatedAt.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

type fakeAdminChatRepo struct {
	chats []models.Chat
}

func (f *fakeAdminChatRepo) List(_ context.Context, _ pagination.Params) ([]models.Chat, int64, error) {
	return f.chats, int64(len(f.chats)), nil
}

func (f *fakeAdminChatRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.chats)), nil
}

type fakeAdminMessageRepo struct {
	total int64
	ai    int64
}

func (f *fakeAdminMessageRepo) Count(_ context.Context) (int64, error)   { return f.total, nil }
func (f *fakeAdminMessageRepo) CountAI(_ context.Context) (int64, error) { return f.ai, nil }

func buildAdminService(t *testing.T, userRepo *fakeAdminUserRepo, chatRepo *fakeAdminChatRepo, msgRepo *fakeAdminMessageRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:    userRepo,
		ChatRepo:    chatRepo,
		MessageRepo: msgRepo,
		Logger:      logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceDeleteUserBlocksSelfDelete(t *testing.T) {
	userRepo := newFakeAdminUserRepo()
	admin := userRepo.add(enums.UserRoleAdmin)
	svc := buildAdminService(t, userRepo, &fakeAdminChatRepo{}, &fakeAdminMessageRepo{})

	err := svc.DeleteUser(context.Background(), admin.ID, admin.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error on self delete, got %v", err)
	}
	if _, ok := userRepo.byID[admin.ID]; !ok {
		t.Fatalf("admin account must survive self-delete attempt")
	}
}

func TestServiceDeleteUser(t *testing.T) {
	userRepo := newFakeAdminUserRepo()
	admin := userRepo.add(enums.UserRoleAdmin)
	target := userRepo.add(enums.UserRoleUser)
	svc := buildAdminService(t, userRepo, &fakeAdminChatRepo{}, &fakeAdminMessageRepo{})

	if err := svc.DeleteUser(context.Background(), admin.ID, target.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	err := svc.DeleteUser(context.Background(), admin.ID, target.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestServicePromoteAdmin(t *testing.T) {
	userRepo := newFakeAdminUserRepo()
	target := userRepo.add(enums.UserRoleUser)
	svc := buildAdminService(t, userRepo, &fakeAdminChatRepo{}, &fakeAdminMessageRepo{})

	promoted, err := svc.PromoteAdmin(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role, got %s", promoted.Role)
	}

	_, err = svc.PromoteAdmin(context.Background(), target.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict when already admin, got %v", err)
	}
}

func TestServiceGetStatistics(t *testing.T) {
	userRepo := newFakeAdminUserRepo()
	userRepo.add(enums.UserRoleAdmin)
	userRepo.add(enums.UserRoleUser)
	userRepo.add(enums.UserRoleUser)
	chatRepo := &fakeAdminChatRepo{chats: []models.Chat{{ID: uuid.New()}, {ID: uuid.New()}}}
	msgRepo := &fakeAdminMessageRepo{total: 40, ai: 12}
	svc := buildAdminService(t, userRepo, chatRepo, msgRepo)

	stats, err := svc.GetStatistics(context.Background())
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalUsers != 3 || stats.TotalAdmins != 1 {
		t.Fatalf("unexpected user counts %+v", stats)
	}
	if stats.TotalChats != 2 || stats.TotalMessages != 40 || stats.AIMessages != 12 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.UsersByProvider[string(enums.AuthProviderEmail)] != 3 {
		t.Fatalf("unexpected provider counts %+v", stats.UsersByProvider)
	}
	if stats.RecentSignups != 3 {
		t.Fatalf("expected 3 recent signups got %d", stats.RecentSignups)
	}
}

func TestServiceUpdateAndGetUser(t *testing.T) {
	userRepo := newFakeAdminUserRepo()
	target := userRepo.add(enums.UserRoleUser)
	svc := buildAdminService(t, userRepo, &fakeAdminChatRepo{}, &fakeAdminMessageRepo{})

	name := "Renamed"
	updated, err := svc.UpdateUser(context.Background(), target.ID, UpdateUserRequest{DisplayName: &name})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.DisplayName != "Renamed" {
		t.Fatalf("expected display name update, got %s", updated.DisplayName)
	}

	_, err = svc.GetUser(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
