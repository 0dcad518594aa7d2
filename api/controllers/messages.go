package controllers

import (
	"net/http"

	"github.com/chatterboxhq/chatterbox-backend/api/responses"
	"github.com/chatterboxhq/chatterbox-backend/api/validators"
	"github.com/chatterboxhq/chatterbox-backend/internal/chats"
	"github.com/chatterboxhq/chatterbox-backend/internal/messages"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
	"github.com/chatterboxhq/chatterbox-backend/pkg/pagination"
)

// CreateMessage appends a message to a chat the authenticated user belongs to.
func CreateMessage(svc messages.Service, chatSvc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || chatSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, chatID, err := chatRequestIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := requireParticipant(ctx, chatSvc, chatID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body messages.CreateMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		msg, err := svc.CreateMessage(ctx, chatID, userID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}

// ListMessages returns a chronological page of chat history.
func ListMessages(svc messages.Service, chatSvc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || chatSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, chatID, err := chatRequestIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := requireParticipant(ctx, chatSvc, chatID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.GetChatMessages(ctx, chatID, pagination.Params{Limit: limit, Offset: offset})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		// Viewing a chat marks the other participants' messages as read.
		// A failure here does not spoil the fetched page.
		if _, err := svc.MarkMessagesAsRead(ctx, chatID, userID); err != nil && logg != nil {
			logg.Error(logg.WithChatID(ctx, chatID.String()), "mark messages read after listing failed", err)
		}

		responses.WriteSuccess(w, list)
	}
}

// MarkMessagesRead flags the other participants' messages as read.
func MarkMessagesRead(svc messages.Service, chatSvc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || chatSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, chatID, err := chatRequestIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := requireParticipant(ctx, chatSvc, chatID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.MarkMessagesAsRead(ctx, chatID, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, messages.MarkReadResponse{Updated: updated})
	}
}

// GenerateAIResponse asks the assistant to reply based on recent history.
func GenerateAIResponse(svc messages.Service, chatSvc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || chatSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, chatID, err := chatRequestIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := requireParticipant(ctx, chatSvc, chatID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		msg, err := svc.GenerateAIResponse(ctx, chatID, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}
