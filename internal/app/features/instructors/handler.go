// internal/app/features/instructors/handler.go
package instructors

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/mindfulness/internal/app/features/errors"
	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	instructorstore "github.com/dalemusser/mindfulness/internal/app/store/instructors"
	"github.com/dalemusser/mindfulness/internal/app/system/jsonutil"
	"github.com/dalemusser/mindfulness/internal/app/system/paging"
	"github.com/dalemusser/mindfulness/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the instructor directory.
type Handler struct {
	Instructors *instructorstore.Store
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

func NewHandler(store *instructorstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Instructors: store, ErrLog: errLog, Log: logger}
}

// List handles GET /instractors.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docs, err := h.Instructors.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list instructors failed", err)
		return
	}
	jsonutil.OK(w, docs)
}

// Top handles GET /top-instractors?limit=N.
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	limit := paging.ParseLimit(r, paging.DefaultLimit)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docs, err := h.Instructors.Top(ctx, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list top instructors failed", err)
		return
	}
	jsonutil.OK(w, docs)
}

// Get handles GET /users/instractor/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, uierrors.MsgInvalidID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Instructors.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "load instructor failed", err, "instructor not found")
		return
	}
	jsonutil.OK(w, doc)
}

// Create handles POST /instractors.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var doc docstore.Doc
	if err := jsonutil.Decode(r, &doc); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode instructor failed", err, uierrors.MsgBadBody)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Instructors.Create(ctx, doc)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create instructor failed", err)
		return
	}
	jsonutil.OK(w, res)
}

// Delete handles DELETE /instractors/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, uierrors.MsgInvalidID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Instructors.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete instructor failed", err)
		return
	}
	jsonutil.OK(w, res)
}
