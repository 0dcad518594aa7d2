package chats

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatterboxhq/chatterbox-backend/pkg/db"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the chat management behavior needed by the controllers.
type Service interface {
	CreateChat(ctx context.Context, ownerID uuid.UUID, req CreateChatRequest) (*ChatDTO, error)
	GetUserChats(ctx context.Context, userID uuid.UUID) ([]*ChatDTO, error)
	GetChat(ctx context.Context, chatID uuid.UUID) (*ChatDTO, error)
	UpdateChat(ctx context.Context, chatID uuid.UUID, req UpdateChatRequest) (*ChatDTO, error)
	DeleteChat(ctx context.Context, chatID uuid.UUID) error
	AddParticipant(ctx context.Context, chatID, userID uuid.UUID) (*ParticipantDTO, error)
	RemoveParticipant(ctx context.Context, chatID, userID uuid.UUID) error
	IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
}

type chatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Chat, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Chat, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddParticipant(ctx context.Context, chatID, userID uuid.UUID) (*models.ChatParticipant, error)
	RemoveParticipant(ctx context.Context, chatID, userID uuid.UUID) error
	IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
}

type service struct {
	chats chatRepository
	logg  *logger.Logger
}

// ServiceParams bundles the dependencies required to build a chats service.
type ServiceParams struct {
	ChatRepo chatRepository
	Logger   *logger.Logger
}

// NewService constructs a chats service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ChatRepo == nil {
		return nil, fmt.Errorf("chat repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{chats: params.ChatRepo, logg: params.Logger}, nil
}

// CreateChat persists the chat row and then the participant rows. The two
// steps are intentionally not transactional: a duplicate participant id in
// the request is skipped, and a partial failure leaves a usable chat where
// re-adding participants is idempotent per pair.
func (s *service) CreateChat(ctx context.Context, ownerID uuid.UUID, req CreateChatRequest) (*ChatDTO, error) {
	chat := &models.Chat{
		Title:       req.Title,
		Description: req.Description,
		IsGroup:     req.IsGroup,
		OwnerID:     ownerID,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create chat")
	}

	ctx = s.logg.WithChatID(ctx, chat.ID.String())

	seen := map[uuid.UUID]bool{ownerID: true}
	members := []uuid.UUID{ownerID}
	for _, id := range req.ParticipantIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}

	for _, userID := range members {
		if _, err := s.chats.AddParticipant(ctx, chat.ID, userID); err != nil {
			if db.IsUniqueViolation(err, "idx_chat_participants_chat_user") {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add participant")
		}
	}

	s.logg.Info(ctx, "chat created")
	return s.GetChat(ctx, chat.ID)
}

func (s *service) GetUserChats(ctx context.Context, userID uuid.UUID) ([]*ChatDTO, error) {
	list, err := s.chats.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list chats")
	}
	return FromModels(list), nil
}

func (s *service) GetChat(ctx context.Context, chatID uuid.UUID) (*ChatDTO, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "chat not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load chat")
	}
	return FromModel(chat), nil
}

func (s *service) UpdateChat(ctx context.Context, chatID uuid.UUID, req UpdateChatRequest) (*ChatDTO, error) {
	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.chats.Update(ctx, chatID, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "chat not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update chat")
		}
	}
	return s.GetChat(ctx, chatID)
}

func (s *service) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	if err := s.chats.Delete(ctx, chatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "chat not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete chat")
	}
	s.logg.Info(s.logg.WithChatID(ctx, chatID.String()), "chat deleted")
	return nil
}

func (s *service) AddParticipant(ctx context.Context, chatID, userID uuid.UUID) (*ParticipantDTO, error) {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "chat not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load chat")
	}

	participant, err := s.chats.AddParticipant(ctx, chatID, userID)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_chat_participants_chat_user") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a participant")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add participant")
	}

	dto := participantFromModel(participant)
	return &dto, nil
}

func (s *service) RemoveParticipant(ctx context.Context, chatID, userID uuid.UUID) error {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "chat not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load chat")
	}
	if chat.OwnerID == userID {
		return pkgerrors.New(pkgerrors.CodeValidation, "chat owner cannot be removed")
	}

	if err := s.chats.RemoveParticipant(ctx, chatID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "participant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove participant")
	}
	return nil
}

func (s *service) IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	ok, err := s.chats.IsParticipant(ctx, chatID, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check participancy")
	}
	return ok, nil
}
