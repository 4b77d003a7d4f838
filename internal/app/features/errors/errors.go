// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	"github.com/dalemusser/mindfulness/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Messages shared by every JSON error response.
const (
	MsgUnauthorized = "unauthorized access"
	MsgForbidden    = "forbidden access"
	MsgServerError  = "internal server error"
	MsgInvalidID    = "invalid id"
	MsgBadBody      = "invalid request body"
)

// ErrorLogger logs handler failures with request context and writes the
// matching JSON error body.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}

// LogServerError logs err at error level and answers 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg, e.fields(r, err)...)
	jsonutil.Error(w, http.StatusInternalServerError, MsgServerError)
}

// LogBadRequest logs err at warn level and answers 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Warn(msg, e.fields(r, err)...)
	jsonutil.Error(w, http.StatusBadRequest, userMsg)
}

// LogStoreError maps a store error to its HTTP status: a malformed id is 400,
// a lookup miss is 404 with notFoundMsg, anything else is 500.
func (e *ErrorLogger) LogStoreError(w http.ResponseWriter, r *http.Request, msg string, err error, notFoundMsg string) {
	switch {
	case stderrors.Is(err, docstore.ErrInvalidID):
		e.LogBadRequest(w, r, msg, err, MsgInvalidID)
	case stderrors.Is(err, docstore.ErrNotFound):
		e.log.Debug(msg, e.fields(r, err)...)
		jsonutil.Error(w, http.StatusNotFound, notFoundMsg)
	default:
		e.LogServerError(w, r, msg, err)
	}
}

// NotFound answers unknown routes with a JSON 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusNotFound, "route not found")
}

// MethodNotAllowed answers known paths hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusMethodNotAllowed, "method not allowed")
}
