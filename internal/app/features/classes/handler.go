// internal/app/features/classes/handler.go
package classes

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/mindfulness/internal/app/features/errors"
	classstore "github.com/dalemusser/mindfulness/internal/app/store/classes"
	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	"github.com/dalemusser/mindfulness/internal/app/system/jsonutil"
	"github.com/dalemusser/mindfulness/internal/app/system/normalize"
	"github.com/dalemusser/mindfulness/internal/app/system/paging"
	"github.com/dalemusser/mindfulness/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Classes *classstore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(store *classstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Classes: store, ErrLog: errLog, Log: logger}
}

// List handles GET /classes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docs, err := h.Classes.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list classes failed", err)
		return
	}
	jsonutil.OK(w, docs)
}

// Top handles GET /top-classes?limit=N.
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	limit := paging.ParseLimit(r, paging.DefaultLimit)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docs, err := h.Classes.Top(ctx, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list top classes failed", err)
		return
	}
	jsonutil.OK(w, docs)
}

// ByInstructor handles GET /instructors/{instructorId}/classes.
func (h *Handler) ByInstructor(w http.ResponseWriter, r *http.Request) {
	instructorID := normalize.PathParam(chi.URLParam(r, "instructorId"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docs, err := h.Classes.ByInstructor(ctx, instructorID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list instructor classes failed", err)
		return
	}
	jsonutil.OK(w, docs)
}

// Create handles POST /classes.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var doc docstore.Doc
	if err := jsonutil.Decode(r, &doc); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode class failed", err, uierrors.MsgBadBody)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Classes.Create(ctx, doc)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create class failed", err)
		return
	}
	jsonutil.OK(w, res)
}
