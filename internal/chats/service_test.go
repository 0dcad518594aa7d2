package chats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeChatRepo struct {
	chats        map[uuid.UUID]*models.Chat
	participants map[uuid.UUID]map[uuid.UUID]bool
	addErrs      map[uuid.UUID]error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:        map[uuid.UUID]*models.Chat{},
		participants: map[uuid.UUID]map[uuid.UUID]bool{},
		addErrs:      map[uuid.UUID]error{},
	}
}

func (f *fakeChatRepo) Create(_ context.Context, chat *models.Chat) error {
	chat.ID = uuid.New()
	f.chats[chat.ID] = chat
	f.participants[chat.ID] = map[uuid.UUID]bool{}
	return nil
}

func (f *fakeChatRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Chat, error) {
	chat, ok := f.chats[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *chat
	copied.Participants = nil
	for userID := range f.participants[id] {
		copied.Participants = append(copied.Participants, models.ChatParticipant{ChatID: id, UserID: userID})
	}
	return &copied, nil
}

func (f *fakeChatRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]models.Chat, error) {
	var out []models.Chat
	for id, members := range f.participants {
		if members[userID] {
			out = append(out, *f.chats[id])
		}
	}
	return out, nil
}

func (f *fakeChatRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) error {
	chat, ok := f.chats[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if title, ok := updates["title"].(string); ok {
		chat.Title = title
	}
	if desc, ok := updates["description"].(string); ok {
		chat.Description = &desc
	}
	return nil
}

func (f *fakeChatRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.chats[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.chats, id)
	delete(f.participants, id)
	return nil
}

func (f *fakeChatRepo) AddParticipant(_ context.Context, chatID, userID uuid.UUID) (*models.ChatParticipant, error) {
	if err := f.addErrs[userID]; err != nil {
		return nil, err
	}
	members, ok := f.participants[chatID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if members[userID] {
		return nil, fmt.Errorf("UNIQUE constraint failed: chat_participants.chat_id, chat_participants.user_id")
	}
	members[userID] = true
	return &models.ChatParticipant{ID: uuid.New(), ChatID: chatID, UserID: userID}, nil
}

func (f *fakeChatRepo) RemoveParticipant(_ context.Context, chatID, userID uuid.UUID) error {
	members, ok := f.participants[chatID]
	if !ok || !members[userID] {
		return gorm.ErrRecordNotFound
	}
	delete(members, userID)
	return nil
}

func (f *fakeChatRepo) IsParticipant(_ context.Context, chatID, userID uuid.UUID) (bool, error) {
	return f.participants[chatID][userID], nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func buildChatsService(t *testing.T, repo *fakeChatRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{ChatRepo: repo, Logger: testLogger()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceCreateChatDeduplicatesOwner(t *testing.T) {
	repo := newFakeChatRepo()
	svc := buildChatsService(t, repo)

	ownerID := uuid.New()
	memberID := uuid.New()

	chat, err := svc.CreateChat(context.Background(), ownerID, CreateChatRequest{
		Title:          "Team",
		IsGroup:        true,
		ParticipantIDs: []uuid.UUID{ownerID, memberID, memberID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if len(chat.Participants) != 2 {
		t.Fatalf("expected 2 participants (owner deduplicated), got %d", len(chat.Participants))
	}
	if chat.OwnerID != ownerID {
		t.Fatalf("expected owner id preserved")
	}
}

func TestServiceCreateChatOwnerAlwaysJoined(t *testing.T) {
	repo := newFakeChatRepo()
	svc := buildChatsService(t, repo)

	ownerID := uuid.New()
	chat, err := svc.CreateChat(context.Background(), ownerID, CreateChatRequest{Title: "Solo"})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if len(chat.Participants) != 1 || chat.Participants[0].UserID != ownerID {
		t.Fatalf("expected owner membership, got %+v", chat.Participants)
	}
}

func TestServiceGetChatNotFound(t *testing.T) {
	repo := newFakeChatRepo()
	svc := buildChatsService(t, repo)

	_, err := svc.GetChat(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceAddParticipantConflict(t *testing.T) {
	repo := newFakeChatRepo()
	svc := buildChatsService(t, repo)

	ownerID := uuid.New()
	chat, err := svc.CreateChat(context.Background(), ownerID, CreateChatRequest{Title: "Conflicts"})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	memberID := uuid.New()
	if _, err := svc.AddParticipant(context.Background(), chat.ID, memberID); err != nil {
		t.Fatalf("add participant: %v", err)
	}

	_, err = svc.AddParticipant(context.Background(), chat.ID, memberID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceRemoveParticipantProtectsOwner(t *testing.T) {
	repo := newFakeChatRepo()
	svc := buildChatsService(t, repo)

	ownerID := uuid.New()
	chat, err := svc.CreateChat(context.Background(), ownerID, CreateChatRequest{Title: "Protected"})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	err = svc.RemoveParticipant(context.Background(), chat.ID, ownerID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for owner removal, got %v", err)
	}
}

func TestServiceUpdateAndDeleteChat(t *testing.T) {
	repo := newFakeChatRepo()
	svc := buildChatsService(t, repo)

	ownerID := uuid.New()
	chat, err := svc.CreateChat(context.Background(), ownerID, CreateChatRequest{Title: "Old"})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	title := "New"
	updated, err := svc.UpdateChat(context.Background(), chat.ID, UpdateChatRequest{Title: &title})
	if err != nil {
		t.Fatalf("update chat: %v", err)
	}
	if updated.Title != "New" {
		t.Fatalf("expected updated title, got %s", updated.Title)
	}

	if err := svc.DeleteChat(context.Background(), chat.ID); err != nil {
		t.Fatalf("delete chat: %v", err)
	}

	err = svc.DeleteChat(context.Background(), chat.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestServiceAddParticipantStoreFailureIsDependencyError(t *testing.T) {
	repo := newFakeChatRepo()
	svc := buildChatsService(t, repo)

	ownerID := uuid.New()
	chat, err := svc.CreateChat(context.Background(), ownerID, CreateChatRequest{Title: "Flaky"})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	memberID := uuid.New()
	repo.addErrs[memberID] = errors.New("connection reset")

	_, err = svc.AddParticipant(context.Background(), chat.ID, memberID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error on store failure, got %v", err)
	}
}
