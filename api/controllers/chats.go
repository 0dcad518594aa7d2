package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chatterboxhq/chatterbox-backend/api/responses"
	"github.com/chatterboxhq/chatterbox-backend/api/validators"
	"github.com/chatterboxhq/chatterbox-backend/internal/chats"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
)

// CreateChat creates a chat owned by the authenticated user.
func CreateChat(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body chats.CreateChatRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		chat, err := svc.CreateChat(ctx, userID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, chat)
	}
}

// ListMyChats returns every chat the authenticated user participates in.
func ListMyChats(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.GetUserChats(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// GetChat returns one chat. Only participants may view it.
func GetChat(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, chatID, err := chatRequestIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := requireParticipant(ctx, svc, chatID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		chat, err := svc.GetChat(ctx, chatID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, chat)
	}
}

// UpdateChat mutates chat metadata. Only the owner may update it.
func UpdateChat(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, chatID, err := chatRequestIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := requireOwner(ctx, svc, chatID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body chats.UpdateChatRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		chat, err := svc.UpdateChat(ctx, chatID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, chat)
	}
}

// DeleteChat removes the chat and its dependents. Only the owner may delete it.
func DeleteChat(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, chatID, err := chatRequestIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := requireOwner(ctx, svc, chatID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteChat(ctx, chatID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AddParticipant joins a user to a chat. Only the owner may add members.
func AddParticipant(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, chatID, err := chatRequestIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := requireOwner(ctx, svc, chatID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body chats.AddParticipantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		participant, err := svc.AddParticipant(ctx, chatID, body.UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, participant)
	}
}

// RemoveParticipant removes a member from a chat. The owner can remove anyone;
// everyone else can only remove themselves. The owner cannot be removed.
func RemoveParticipant(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, chatID, err := chatRequestIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		targetID, err := validators.ParsePathUUID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		chat, err := svc.GetChat(ctx, chatID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if chat.OwnerID != userID && targetID != userID {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can remove other participants"))
			return
		}

		if err := svc.RemoveParticipant(ctx, chatID, targetID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func chatRequestIDs(r *http.Request) (userID, chatID uuid.UUID, err error) {
	userID, err = currentUserID(r.Context())
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	chatID, err = validators.ParsePathUUID(chi.URLParam(r, "chatID"), "chatID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, chatID, nil
}

func requireOwner(ctx context.Context, svc chats.Service, chatID, userID uuid.UUID) error {
	chat, err := svc.GetChat(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.OwnerID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the chat owner may perform this action")
	}
	return nil
}

func requireParticipant(ctx context.Context, svc chats.Service, chatID, userID uuid.UUID) error {
	ok, err := svc.IsParticipant(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this chat")
	}
	return nil
}
