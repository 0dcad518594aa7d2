package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatterboxhq/chatterbox-backend/api/responses"
	"github.com/chatterboxhq/chatterbox-backend/api/validators"
	"github.com/chatterboxhq/chatterbox-backend/internal/users"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
)

type userProfileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, dto users.UpdateUserDTO) (*models.User, error)
}

func mapUserLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
}

type updateProfilePayload struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// Me returns the authenticated user's profile.
func Me(store userProfileStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user store unavailable"))
			return
		}

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := store.FindByID(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, mapUserLookupError(err))
			return
		}

		responses.WriteSuccess(w, users.FromModel(user))
	}
}

// UpdateMe applies partial profile updates for the authenticated user.
func UpdateMe(store userProfileStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user store unavailable"))
			return
		}

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body updateProfilePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := store.Update(ctx, userID, users.UpdateUserDTO{
			DisplayName: body.DisplayName,
			AvatarURL:   body.AvatarURL,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, mapUserLookupError(err))
			return
		}

		responses.WriteSuccess(w, users.FromModel(updated))
	}
}
