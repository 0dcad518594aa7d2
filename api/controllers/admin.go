package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chatterboxhq/chatterbox-backend/api/responses"
	"github.com/chatterboxhq/chatterbox-backend/api/validators"
	"github.com/chatterboxhq/chatterbox-backend/internal/admin"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
	"github.com/chatterboxhq/chatterbox-backend/pkg/pagination"
)

// AdminListUsers returns a paginated user listing.
func AdminListUsers(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		page, err := adminPageParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ListUsers(ctx, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminGetUser returns one user by id.
func AdminGetUser(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.GetUser(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AdminUpdateUser applies profile updates to any user.
func AdminUpdateUser(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body admin.UpdateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.UpdateUser(ctx, id, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AdminDeleteUser removes a user. Admins cannot delete their own account.
func AdminDeleteUser(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		actorID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteUser(ctx, actorID, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminPromoteUser grants the admin role to a user.
func AdminPromoteUser(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.PromoteAdmin(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AdminListChats returns a paginated chat listing across all users.
func AdminListChats(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		page, err := adminPageParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ListChats(ctx, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminStatistics reports platform-wide counters.
func AdminStatistics(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		stats, err := svc.GetStatistics(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

func adminPageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 100, 1, pagination.AdminMaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Limit: limit, Offset: offset}, nil
}
