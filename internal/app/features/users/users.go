// internal/app/features/users/users.go
package users

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/mindfulness/internal/app/features/errors"
	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	userstore "github.com/dalemusser/mindfulness/internal/app/store/users"
	"github.com/dalemusser/mindfulness/internal/app/system/authz"
	"github.com/dalemusser/mindfulness/internal/app/system/jsonutil"
	"github.com/dalemusser/mindfulness/internal/app/system/normalize"
	"github.com/dalemusser/mindfulness/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type messageResponse struct {
	Message string `json:"message"`
}

// List handles GET /users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docs, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err)
		return
	}
	jsonutil.OK(w, docs)
}

// Create handles POST /users. A user whose email is already stored is not
// an error; the client calls this on every login.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var doc docstore.Doc
	if err := jsonutil.Decode(r, &doc); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode user failed", err, uierrors.MsgBadBody)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Users.Create(ctx, doc)
	switch {
	case errors.Is(err, userstore.ErrExists):
		jsonutil.OK(w, messageResponse{Message: "user already exists"})
		return
	case errors.Is(err, userstore.ErrEmailRequired):
		jsonutil.Error(w, http.StatusBadRequest, "email is required")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create user failed", err)
		return
	}

	h.Log.Info("user created", zap.Any("id", res.InsertedID))
	jsonutil.OK(w, res)
}

// Delete handles DELETE /users/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, uierrors.MsgInvalidID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Users.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete user failed", err)
		return
	}
	jsonutil.OK(w, res)
}

// Promote returns a handler that sets the role of the user named by the
// {id} path parameter, leaving all other fields as they are.
func (h *Handler) Promote(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := docstore.ParseID(chi.URLParam(r, "id"))
		if err != nil {
			jsonutil.Error(w, http.StatusBadRequest, uierrors.MsgInvalidID)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		res, err := h.Users.SetRole(ctx, id, role)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "set user role failed", err)
			return
		}
		h.Log.Info("user role set",
			zap.String("id", id.Hex()),
			zap.String("role", role),
			zap.Int64("matched", res.MatchedCount))
		jsonutil.OK(w, res)
	}
}

// RoleProbe returns a handler answering {key: bool}: whether the user named
// by the {email} path parameter holds role. Callers may only probe
// themselves; probing anyone else answers false without reading the store.
func (h *Handler) RoleProbe(role, key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := normalize.PathParam(chi.URLParam(r, "email"))
		if !authz.OwnsRequest(r, email) {
			jsonutil.OK(w, map[string]bool{key: false})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		got, err := h.Users.RoleByEmail(ctx, email)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "role probe failed", err)
			return
		}
		jsonutil.OK(w, map[string]bool{key: got == role})
	}
}

// Role probe response keys; "instractor" is the spelling clients expect.
const (
	KeyAdmin      = "admin"
	KeyInstructor = "instractor"
	KeyStudent    = "student"
)
