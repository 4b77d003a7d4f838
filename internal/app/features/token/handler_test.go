package token_test

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/mindfulness/internal/app/features/errors"
	"github.com/dalemusser/mindfulness/internal/app/features/token"
	"github.com/dalemusser/mindfulness/internal/app/system/jwtutil"
	"github.com/dalemusser/mindfulness/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newRouter(issuer *jwtutil.Issuer) chi.Router {
	r := chi.NewRouter()
	token.Routes(r, token.NewHandler(issuer, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop()))
	return r
}

func TestIssue_RoundTrip(t *testing.T) {
	r := newRouter(testutil.Issuer())

	rec := testutil.Serve(r, testutil.NewRequest(t, "POST", "/jwt", map[string]any{
		"email": "student@test.com",
		"name":  "Student",
	}))
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Token string `json:"token"`
	}
	rec.DecodeJSON(t, &body)
	if body.Token == "" {
		t.Fatal("expected a token")
	}

	claims, err := testutil.Issuer().Verify(body.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims["email"] != "student@test.com" {
		t.Errorf("email claim: got %v", claims["email"])
	}
	if claims["name"] != "Student" {
		t.Errorf("name claim: got %v", claims["name"])
	}
}

func TestIssue_MissingEmail(t *testing.T) {
	r := newRouter(testutil.Issuer())
	rec := testutil.Serve(r, testutil.NewRequest(t, "POST", "/jwt", map[string]any{"name": "x"}))
	rec.AssertJSONError(t, http.StatusBadRequest, "email is required")
}

func TestIssue_BadJSON(t *testing.T) {
	r := newRouter(testutil.Issuer())
	for _, body := range []string{"{not json", "null", "[1,2]"} {
		rec := testutil.Serve(r, testutil.NewRequest(t, "POST", "/jwt", body))
		rec.AssertJSONError(t, http.StatusBadRequest, uierrors.MsgBadBody)
	}
}

func TestIssue_NoSecret(t *testing.T) {
	r := newRouter(jwtutil.NewIssuer("", time.Hour))
	rec := testutil.Serve(r, testutil.NewRequest(t, "POST", "/jwt", map[string]any{"email": "a@test.com"}))
	rec.AssertJSONError(t, http.StatusInternalServerError, uierrors.MsgServerError)
}
