package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/chats"
	"github.com/chatterboxhq/chatterbox-backend/internal/users"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	"github.com/chatterboxhq/chatterbox-backend/pkg/enums"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
	"github.com/chatterboxhq/chatterbox-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the administrative surface.
type Service interface {
	ListUsers(ctx context.Context, page pagination.Params) (*UserListResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*users.UserDTO, error)
	DeleteUser(ctx context.Context, actorID, id uuid.UUID) error
	PromoteAdmin(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
	ListChats(ctx context.Context, page pagination.Params) (*ChatListResponse, error)
	GetStatistics(ctx context.Context) (*Statistics, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, dto users.UpdateUserDTO) (*models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, page pagination.Params) ([]models.User, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role enums.UserRole) (int64, error)
	CountByProvider(ctx context.Context) (map[enums.AuthProvider]int64, error)
	CountCreatedSince(ctx context.Context, cutoff time.Time) (int64, error)
}

type chatRepository interface {
	List(ctx context.Context, page pagination.Params) ([]models.Chat, int64, error)
	Count(ctx context.Context) (int64, error)
}

type messageRepository interface {
	Count(ctx context.Context) (int64, error)
	CountAI(ctx context.Context) (int64, error)
}

type service struct {
	users    userRepository
	chats    chatRepository
	messages messageRepository
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build an admin service.
type ServiceParams struct {
	UserRepo    userRepository
	ChatRepo    chatRepository
	MessageRepo messageRepository
	Logger      *logger.Logger
}

// NewService constructs an admin service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ChatRepo == nil {
		return nil, fmt.Errorf("chat repository is required")
	}
	if params.MessageRepo == nil {
		return nil, fmt.Errorf("message repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		users:    params.UserRepo,
		chats:    params.ChatRepo,
		messages: params.MessageRepo,
		logg:     params.Logger,
	}, nil
}

func (s *service) ListUsers(ctx context.Context, page pagination.Params) (*UserListResponse, error) {
	list, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return &UserListResponse{Users: users.FromModels(list), Total: total}, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*users.UserDTO, error) {
	user, err := s.users.Update(ctx, id, users.UpdateUserDTO{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return users.FromModel(user), nil
}

// DeleteUser removes an account. Admins cannot delete themselves so the
// system always retains at least the acting administrator.
func (s *service) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "admins cannot delete their own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	s.logg.Info(s.logg.WithUserID(ctx, id.String()), "user deleted by admin")
	return nil
}

func (s *service) PromoteAdmin(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.Role == enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already an admin")
	}

	if err := s.users.UpdateRole(ctx, id, enums.UserRoleAdmin); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote user")
	}
	user.Role = enums.UserRoleAdmin

	s.logg.Info(s.logg.WithUserID(ctx, id.String()), "user promoted to admin")
	return users.FromModel(user), nil
}

func (s *service) ListChats(ctx context.Context, page pagination.Params) (*ChatListResponse, error) {
	list, total, err := s.chats.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list chats")
	}
	return &ChatListResponse{Chats: chats.FromModels(list), Total: total}, nil
}

// recentSignupWindow bounds the "recent signups" statistic.
const recentSignupWindow = 7 * 24 * time.Hour

func (s *service) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}

	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	if stats.TotalAdmins, err = s.users.CountByRole(ctx, enums.UserRoleAdmin); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count admins")
	}
	if stats.TotalChats, err = s.chats.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count chats")
	}
	if stats.TotalMessages, err = s.messages.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count messages")
	}
	if stats.AIMessages, err = s.messages.CountAI(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count ai messages")
	}

	providerCounts, err := s.users.CountByProvider(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users by provider")
	}
	stats.UsersByProvider = make(map[string]int64, len(providerCounts))
	for provider, count := range providerCounts {
		stats.UsersByProvider[string(provider)] = count
	}

	if stats.RecentSignups, err = s.users.CountCreatedSince(ctx, time.Now().Add(-recentSignupWindow)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count recent signups")
	}
	return stats, nil
}
