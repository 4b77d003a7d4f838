// internal/app/features/selectedclasses/handler.go
package selectedclasses

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/mindfulness/internal/app/features/errors"
	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	selectionstore "github.com/dalemusser/mindfulness/internal/app/store/selectedclasses"
	"github.com/dalemusser/mindfulness/internal/app/system/authz"
	"github.com/dalemusser/mindfulness/internal/app/system/jsonutil"
	"github.com/dalemusser/mindfulness/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves students' class carts.
type Handler struct {
	Selections *selectionstore.Store
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(store *selectionstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Selections: store, ErrLog: errLog, Log: logger}
}

// Mine handles POST /selectedClasses?email=…: the cart of the caller. The
// email parameter must name the caller.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	email := query.Get(r, "email")
	if !authz.OwnsRequest(r, email) {
		jsonutil.Error(w, http.StatusForbidden, uierrors.MsgForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docs, err := h.Selections.ListByEmail(ctx, email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list cart failed", err)
		return
	}
	jsonutil.OK(w, docs)
}

// All handles GET /selectedClasses.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docs, err := h.Selections.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list selections failed", err)
		return
	}
	jsonutil.OK(w, docs)
}

// Add handles POST /selectedClasses/items. The entry is always owned by the
// caller.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var doc docstore.Doc
	if err := jsonutil.Decode(r, &doc); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode selection failed", err, uierrors.MsgBadBody)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Selections.Create(ctx, authz.Email(r), doc)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "add selection failed", err)
		return
	}
	jsonutil.OK(w, res)
}

// Remove handles DELETE /selectedClasses/{id}. Entries owned by someone
// else are left alone and reported as deletedCount 0.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, uierrors.MsgInvalidID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Selections.Delete(ctx, authz.Email(r), id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "remove selection failed", err)
		return
	}
	jsonutil.OK(w, res)
}
