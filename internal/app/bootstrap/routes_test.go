package bootstrap

import (
	"net/http"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/mindfulness/internal/app/features/errors"
	"github.com/dalemusser/mindfulness/internal/domain/models"
	"github.com/dalemusser/mindfulness/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testAppConfig() AppConfig {
	return AppConfig{
		StoreBackend:      BackendMemory,
		AccessTokenSecret: testutil.TestSecret,
		TokenTTL:          time.Hour,
		CORSOrigins:       []string{"*"},
	}
}

func buildTestHandler(t *testing.T) (http.Handler, DBDeps) {
	t.Helper()
	deps := memoryDeps()
	h, err := BuildHandler(&config.CoreConfig{}, testAppConfig(), deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}
	return h, deps
}

func TestBuildHandler_RequiresStore(t *testing.T) {
	if _, err := BuildHandler(&config.CoreConfig{}, testAppConfig(), DBDeps{}, testLogger()); err == nil {
		t.Fatal("expected error without a store")
	}
	if _, err := BuildHandler(nil, testAppConfig(), memoryDeps(), testLogger()); err == nil {
		t.Fatal("expected error without core config")
	}
}

func TestBuildHandler_RootAndHealth(t *testing.T) {
	h, _ := buildTestHandler(t)

	rec := testutil.Serve(h, testutil.NewRequest(t, http.MethodGet, "/", nil))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Mindfulness server is running")

	rec = testutil.Serve(h, testutil.NewRequest(t, http.MethodGet, "/health", nil))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "connected")
}

func TestBuildHandler_UnknownRouteIsJSON404(t *testing.T) {
	h, _ := buildTestHandler(t)

	rec := testutil.Serve(h, testutil.NewRequest(t, http.MethodGet, "/nope", nil))
	rec.AssertJSONError(t, http.StatusNotFound, "")
}

func TestBuildHandler_TokenThenAdminFlow(t *testing.T) {
	h, deps := buildTestHandler(t)
	fx := testutil.NewFixtures(t, deps.Store)
	fx.CreateUser("student@test.com", models.RoleStudent)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := ensureAdmin(ctx, deps, "admin@test.com", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	// Issue a token through the public endpoint and use it.
	rec := testutil.Serve(h, testutil.NewRequest(t, http.MethodPost, "/jwt", map[string]any{"email": "admin@test.com"}))
	rec.AssertStatus(t, http.StatusOK)
	var tok struct {
		Token string `json:"token"`
	}
	rec.DecodeJSON(t, &tok)
	if tok.Token == "" {
		t.Fatal("expected a token")
	}

	req := testutil.NewRequest(t, http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec = testutil.Serve(h, req)
	rec.AssertStatus(t, http.StatusOK)
	var users []map[string]any
	rec.DecodeJSON(t, &users)
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}

	// Same route: no token, then a non-admin token.
	rec = testutil.Serve(h, testutil.NewRequest(t, http.MethodGet, "/users", nil))
	rec.AssertJSONError(t, http.StatusUnauthorized, "unauthorized access")

	rec = testutil.Serve(h, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/users", "student@test.com", nil))
	rec.AssertJSONError(t, http.StatusForbidden, "forbidden access")
}

func TestBuildHandler_PublicRoutes(t *testing.T) {
	h, deps := buildTestHandler(t)
	fx := testutil.NewFixtures(t, deps.Store)
	iid := fx.CreateInstructor("teach@test.com", "Teach")
	fx.CreateClass(iid.Hex(), "Breathing")

	for _, path := range []string{"/classes", "/top-classes", "/top-instractors", "/selectedClasses", "/users/instractor/" + iid.Hex()} {
		rec := testutil.Serve(h, testutil.NewRequest(t, http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestBuildHandler_CORS(t *testing.T) {
	h, _ := buildTestHandler(t)

	req := testutil.NewRequest(t, http.MethodGet, "/classes", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := testutil.Serve(h, req)

	rec.AssertStatus(t, http.StatusOK)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin: got %q, want *", got)
	}
}

func TestBuildHandler_LogsRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h, err := BuildHandler(&config.CoreConfig{}, testAppConfig(), memoryDeps(), zap.New(core))
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	testutil.Serve(h, testutil.NewRequest(t, http.MethodGet, "/classes", nil))

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/classes" {
		t.Errorf("path: got %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Errorf("status: got %v (%T)", fields["status"], fields["status"])
	}
}

func TestBuildHandler_BodySizeLimit(t *testing.T) {
	h, err := BuildHandler(&config.CoreConfig{MaxRequestBodyBytes: 64}, testAppConfig(), memoryDeps(), testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	body := map[string]any{"email": "big@test.com", "name": strings.Repeat("x", 256)}
	rec := testutil.Serve(h, testutil.NewRequest(t, http.MethodPost, "/users", body))
	rec.AssertJSONError(t, http.StatusBadRequest, uierrors.MsgBadBody)

	rec = testutil.Serve(h, testutil.NewRequest(t, http.MethodPost, "/users", map[string]any{"email": "ok@test.com"}))
	rec.AssertStatus(t, http.StatusOK)
}
