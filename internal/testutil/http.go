package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/mindfulness/internal/app/system/auth"
	"github.com/dalemusser/mindfulness/internal/app/system/jwtutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TestSecret signs every token minted in tests.
const TestSecret = "mindfulness-test-secret-0123456789"

// Issuer returns a token issuer using TestSecret.
func Issuer() *jwtutil.Issuer {
	return jwtutil.NewIssuer(TestSecret, time.Hour)
}

// TokenManager returns a TokenManager over TestSecret that resolves roles
// through roles.
func TokenManager(roles auth.RoleLookup) *auth.TokenManager {
	return auth.NewTokenManager(Issuer(), roles, zap.NewNop())
}

// Token mints a valid bearer token for email.
func Token(t *testing.T, email string) string {
	t.Helper()
	tok, err := Issuer().Sign(map[string]any{"email": email})
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return tok
}

// NewRequest creates an HTTP request for testing. A non-nil body is encoded
// as JSON unless it is already a string.
func NewRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		rdr = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// NewAuthenticatedRequest is NewRequest with a bearer token for email.
func NewAuthenticatedRequest(t *testing.T, method, target, email string, body any) *http.Request {
	t.Helper()
	req := NewRequest(t, method, target, body)
	req.Header.Set("Authorization", "Bearer "+Token(t, email))
	return req
}

// WithChiURLParam adds a chi URL parameter to the request context, keeping
// any parameters added before.
// Use this in handler tests that call a handler without a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// Serve runs req through h and returns the recorded response.
func Serve(h http.Handler, req *http.Request) *ResponseRecorder {
	rec := NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t testing.TB, expected int) {
	t.Helper()
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t testing.TB, expected string) {
	t.Helper()
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q: %s", expected, r.Body.String())
	}
}

// AssertJSONError checks for the {"error":true,"message":...} envelope.
func (r *ResponseRecorder) AssertJSONError(t testing.TB, status int, message string) {
	t.Helper()
	r.AssertStatus(t, status)
	var body struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON error: %v (body: %s)", err, r.Body.String())
	}
	if !body.Error {
		t.Errorf("expected error flag in %s", r.Body.String())
	}
	if message != "" && body.Message != message {
		t.Errorf("error message: got %q, want %q", body.Message, message)
	}
}

// DecodeJSON decodes the response body into v.
func (r *ResponseRecorder) DecodeJSON(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, r.Body.String())
	}
}
