// internal/app/system/jsonutil/jsonutil.go
package jsonutil

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/waffle/httputil"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Error writes {"error":true,"message":msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, ErrorBody{Error: true, Message: msg})
}

// Decode reads a single JSON value from the request body into v. Unknown
// fields are kept since documents are schemaless; an empty body, trailing
// data, or a body cut off by the size limit is an error.
func Decode(r *http.Request, v any) error {
	return httputil.BindJSONAllowUnknown(r, v)
}
