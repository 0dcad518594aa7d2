package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/chatterboxhq/chatterbox-backend/internal/chats"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
)

type stubChatService struct {
	chat        *chats.ChatDTO
	list        []*chats.ChatDTO
	participant *chats.ParticipantDTO
	isMember    bool
	err         error

	removedUser uuid.UUID
	deleted     bool
}

func (s *stubChatService) CreateChat(ctx context.Context, ownerID uuid.UUID, req chats.CreateChatRequest) (*chats.ChatDTO, error) {
	return s.chat, s.err
}

func (s *stubChatService) GetUserChats(ctx context.Context, userID uuid.UUID) ([]*chats.ChatDTO, error) {
	return s.list, s.err
}

func (s *stubChatService) GetChat(ctx context.Context, chatID uuid.UUID) (*chats.ChatDTO, error) {
	if s.chat == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "chat not found")
	}
	return s.chat, nil
}

func (s *stubChatService) UpdateChat(ctx context.Context, chatID uuid.UUID, req chats.UpdateChatRequest) (*chats.ChatDTO, error) {
	return s.chat, s.err
}

func (s *stubChatService) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	s.deleted = true
	return s.err
}

func (s *stubChatService) AddParticipant(ctx context.Context, chatID, userID uuid.UUID) (*chats.ParticipantDTO, error) {
	return s.participant, s.err
}

func (s *stubChatService) RemoveParticipant(ctx context.Context, chatID, userID uuid.UUID) error {
	s.removedUser = userID
	return s.err
}

func (s *stubChatService) IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	return s.isMember, nil
}

func TestCreateChatSuccess(t *testing.T) {
	owner := uuid.New()
	svc := &stubChatService{chat: &chats.ChatDTO{ID: uuid.New(), Title: "Standup", OwnerID: owner}}
	handler := CreateChat(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chats", bytes.NewReader([]byte(`{"title":"Standup"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, asUser(req, owner))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateChatMissingUserContext(t *testing.T) {
	handler := CreateChat(&stubChatService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chats", bytes.NewReader([]byte(`{"title":"Standup"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestGetChatRequiresMembership(t *testing.T) {
	chatID := uuid.New()
	svc := &stubChatService{chat: &chats.ChatDTO{ID: chatID, Title: "Private"}, isMember: false}
	handler := withChiParam("chatID", chatID.String(), GetChat(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chats/"+chatID.String(), nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, asUser(req, uuid.New()))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestGetChatAsParticipant(t *testing.T) {
	chatID := uuid.New()
	svc := &stubChatService{chat: &chats.ChatDTO{ID: chatID, Title: "Private"}, isMember: true}
	handler := withChiParam("chatID", chatID.String(), GetChat(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chats/"+chatID.String(), nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, asUser(req, uuid.New()))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestUpdateChatRejectsNonOwner(t *testing.T) {
	chatID := uuid.New()
	svc := &stubChatService{chat: &chats.ChatDTO{ID: chatID, OwnerID: uuid.New()}}
	handler := withChiParam("chatID", chatID.String(), UpdateChat(svc, nil))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/chats/"+chatID.String(), bytes.NewReader([]byte(`{"title":"Renamed"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, asUser(req, uuid.New()))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestDeleteChatAsOwner(t *testing.T) {
	owner := uuid.New()
	chatID := uuid.New()
	svc := &stubChatService{chat: &chats.ChatDTO{ID: chatID, OwnerID: owner}}
	handler := withChiParam("chatID", chatID.String(), DeleteChat(svc, nil))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/chats/"+chatID.String(), nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, asUser(req, owner))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.deleted {
		t.Fatal("expected delete to reach the service")
	}
}

func TestRemoveParticipantSelfLeave(t *testing.T) {
	member := uuid.New()
	chatID := uuid.New()
	svc := &stubChatService{chat: &chats.ChatDTO{ID: chatID, OwnerID: uuid.New()}}
	handler := withChiParam("chatID", chatID.String(),
		withChiParam("userID", member.String(), RemoveParticipant(svc, nil)))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/chats/"+chatID.String()+"/participants/"+member.String(), nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, asUser(req, member))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.removedUser != member {
		t.Fatalf("expected removal of %s got %s", member, svc.removedUser)
	}
}

func TestRemoveParticipantBlocksOtherMembers(t *testing.T) {
	chatID := uuid.New()
	svc := &stubChatService{chat: &chats.ChatDTO{ID: chatID, OwnerID: uuid.New()}}
	handler := withChiParam("chatID", chatID.String(),
		withChiParam("userID", uuid.New().String(), RemoveParticipant(svc, nil)))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/chats/"+chatID.String()+"/participants/"+uuid.New().String(), nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, asUser(req, uuid.New()))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
