package users_test

import (
	"context"
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/mindfulness/internal/app/features/errors"
	"github.com/dalemusser/mindfulness/internal/app/features/users"
	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	userstore "github.com/dalemusser/mindfulness/internal/app/store/users"
	"github.com/dalemusser/mindfulness/internal/domain/models"
	"github.com/dalemusser/mindfulness/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type env struct {
	router chi.Router
	db     *testutil.CountingDB
	fx     *testutil.Fixtures
	store  *userstore.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewCountingDB(testutil.NewMemoryDB())
	store := userstore.New(db)
	h := users.NewHandler(store, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	r := chi.NewRouter()
	users.Routes(r, h, testutil.TokenManager(store))
	return &env{router: r, db: db, fx: testutil.NewFixtures(t, db), store: store}
}

func TestProtectedRoutes_NoToken_Returns401WithoutStoreCall(t *testing.T) {
	e := newEnv(t)
	id := primitive.NewObjectID().Hex()
	routes := []struct{ method, path string }{
		{"GET", "/users"},
		{"DELETE", "/users/" + id},
		{"GET", "/users/admin/a@test.com"},
		{"PATCH", "/users/admin/" + id},
		{"GET", "/user/instractor/a@test.com"},
		{"GET", "/user/student/a@test.com"},
		{"PATCH", "/users/instractor/" + id},
	}
	for _, rt := range routes {
		e.db.Reset()
		rec := testutil.Serve(e.router, testutil.NewRequest(t, rt.method, rt.path, nil))
		rec.AssertJSONError(t, http.StatusUnauthorized, uierrors.MsgUnauthorized)
		if e.db.Calls() != 0 {
			t.Errorf("%s %s: expected no store call, got %d", rt.method, rt.path, e.db.Calls())
		}
	}
}

func TestCreate_SecondSignupReportsExisting(t *testing.T) {
	e := newEnv(t)

	rec := testutil.Serve(e.router, testutil.NewRequest(t, "POST", "/users", map[string]any{"email": "new@test.com", "name": "New"}))
	rec.AssertStatus(t, http.StatusOK)
	var ins docstore.InsertResult
	rec.DecodeJSON(t, &ins)
	if !ins.Acknowledged || ins.InsertedID == nil {
		t.Errorf("unexpected insert result: %+v", ins)
	}

	rec = testutil.Serve(e.router, testutil.NewRequest(t, "POST", "/users", map[string]any{"email": "new@test.com", "name": "Again"}))
	rec.AssertStatus(t, http.StatusOK)
	var msg struct {
		Message string `json:"message"`
	}
	rec.DecodeJSON(t, &msg)
	if msg.Message != "user already exists" {
		t.Errorf("message: got %q", msg.Message)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	all, _ := e.store.List(ctx)
	if len(all) != 1 {
		t.Errorf("expected exactly one stored user, got %d", len(all))
	}
}

func TestCreate_BadInput(t *testing.T) {
	e := newEnv(t)

	rec := testutil.Serve(e.router, testutil.NewRequest(t, "POST", "/users", "{oops"))
	rec.AssertJSONError(t, http.StatusBadRequest, uierrors.MsgBadBody)

	rec = testutil.Serve(e.router, testutil.NewRequest(t, "POST", "/users", map[string]any{"name": "no email"}))
	rec.AssertJSONError(t, http.StatusBadRequest, "email is required")
}

func TestList_RequiresAdmin(t *testing.T) {
	e := newEnv(t)
	e.fx.CreateUser("student@test.com", models.RoleStudent)
	e.fx.CreateUser("admin@test.com", models.RoleAdmin)

	rec := testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "GET", "/users", "student@test.com", nil))
	rec.AssertJSONError(t, http.StatusForbidden, uierrors.MsgForbidden)

	rec = testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "GET", "/users", "admin@test.com", nil))
	rec.AssertStatus(t, http.StatusOK)
	var docs []map[string]any
	rec.DecodeJSON(t, &docs)
	if len(docs) != 2 {
		t.Errorf("expected 2 users, got %d", len(docs))
	}
}

func TestPromoteAdmin_SetsRoleAndPreservesFields(t *testing.T) {
	e := newEnv(t)
	e.fx.CreateUser("admin@test.com", models.RoleAdmin)
	target := e.fx.Insert(models.CollUsers, docstore.Doc{"email": "t@test.com", "name": "Target", "photo": "t.png"})

	rec := testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "PATCH", "/users/admin/"+target.Hex(), "admin@test.com", nil))
	rec.AssertStatus(t, http.StatusOK)
	var upd docstore.UpdateResult
	rec.DecodeJSON(t, &upd)
	if upd.MatchedCount != 1 || upd.ModifiedCount != 1 {
		t.Errorf("unexpected update result: %+v", upd)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, err := e.store.GetByID(ctx, target)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got["role"] != "admin" {
		t.Errorf("role: got %v", got["role"])
	}
	if got["name"] != "Target" || got["photo"] != "t.png" || got["email"] != "t@test.com" {
		t.Errorf("other fields changed: %v", got)
	}
}

func TestPromoteAdmin_NonAdminForbidden(t *testing.T) {
	e := newEnv(t)
	e.fx.CreateUser("i@test.com", models.RoleInstructor)
	target := e.fx.CreateUser("t@test.com", "")

	rec := testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "PATCH", "/users/admin/"+target.Hex(), "i@test.com", nil))
	rec.AssertJSONError(t, http.StatusForbidden, uierrors.MsgForbidden)
}

func TestPromoteInstructor(t *testing.T) {
	e := newEnv(t)
	target := e.fx.CreateUser("t@test.com", models.RoleStudent)

	rec := testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "PATCH", "/users/instractor/"+target.Hex(), "anyone@test.com", nil))
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := e.store.GetByID(ctx, target)
	if got["role"] != "instructor" {
		t.Errorf("role: got %v", got["role"])
	}
}

func TestPromote_InvalidID(t *testing.T) {
	e := newEnv(t)
	rec := testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "PATCH", "/users/instractor/not-an-id", "a@test.com", nil))
	rec.AssertJSONError(t, http.StatusBadRequest, uierrors.MsgInvalidID)
}

func TestDelete_Admin(t *testing.T) {
	e := newEnv(t)
	e.fx.CreateUser("admin@test.com", models.RoleAdmin)
	target := e.fx.CreateUser("gone@test.com", "")

	rec := testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "DELETE", "/users/"+target.Hex(), "admin@test.com", nil))
	rec.AssertStatus(t, http.StatusOK)
	var del docstore.DeleteResult
	rec.DecodeJSON(t, &del)
	if del.DeletedCount != 1 {
		t.Errorf("expected 1 deleted, got %d", del.DeletedCount)
	}
}

func TestRoleProbe_MismatchAnswersFalseWithoutStoreCall(t *testing.T) {
	e := newEnv(t)
	e.fx.CreateUser("admin@test.com", models.RoleAdmin)
	e.db.Reset()

	rec := testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "GET", "/users/admin/admin@test.com", "other@test.com", nil))
	rec.AssertStatus(t, http.StatusOK)
	var body map[string]bool
	rec.DecodeJSON(t, &body)
	if v, ok := body["admin"]; !ok || v {
		t.Errorf("expected {admin:false}, got %v", body)
	}
	if e.db.Calls() != 0 {
		t.Errorf("expected no store call, got %d", e.db.Calls())
	}
}

func TestRoleProbe_OwnEmail(t *testing.T) {
	e := newEnv(t)
	e.fx.CreateUser("admin@test.com", models.RoleAdmin)
	e.fx.CreateUser("inst@test.com", models.RoleInstructor)
	e.fx.CreateUser("stud@test.com", models.RoleStudent)

	tests := []struct {
		path  string
		email string
		key   string
		want  bool
	}{
		{"/users/admin/admin@test.com", "admin@test.com", "admin", true},
		{"/users/admin/stud@test.com", "stud@test.com", "admin", false},
		{"/user/instractor/inst@test.com", "inst@test.com", "instractor", true},
		{"/user/instractor/admin@test.com", "admin@test.com", "instractor", false},
		{"/user/student/stud@test.com", "stud@test.com", "student", true},
		{"/user/student/ghost@test.com", "ghost@test.com", "student", false},
	}
	for _, tt := range tests {
		rec := testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "GET", tt.path, tt.email, nil))
		rec.AssertStatus(t, http.StatusOK)
		var body map[string]bool
		rec.DecodeJSON(t, &body)
		if got, ok := body[tt.key]; !ok || got != tt.want {
			t.Errorf("%s: got %v, want {%s:%v}", tt.path, body, tt.key, tt.want)
		}
	}
}

func TestRoleProbe_StoreFailure(t *testing.T) {
	failing := testutil.FailingDB{Err: context.DeadlineExceeded}
	store := userstore.New(failing)
	h := users.NewHandler(store, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	r := chi.NewRouter()
	users.Routes(r, h, testutil.TokenManager(store))

	rec := testutil.Serve(r, testutil.NewAuthenticatedRequest(t, "GET", "/user/student/s@test.com", "s@test.com", nil))
	rec.AssertJSONError(t, http.StatusInternalServerError, uierrors.MsgServerError)
}

func TestRoleCheck_PercentEncodedEmail(t *testing.T) {
	e := newEnv(t)
	e.fx.CreateUser("admin@test.com", models.RoleAdmin)
	e.fx.CreateUser("stud@test.com", models.RoleStudent)

	tests := []struct {
		path  string
		email string
		key   string
	}{
		{"/users/admin/admin%40test.com", "admin@test.com", "admin"},
		{"/user/student/stud%40test.com", "stud@test.com", "student"},
		{"/user/student/Stud%40Test.com", "stud@test.com", "student"},
	}
	for _, tt := range tests {
		rec := testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "GET", tt.path, tt.email, nil))
		rec.AssertStatus(t, http.StatusOK)
		var body map[string]bool
		rec.DecodeJSON(t, &body)
		if !body[tt.key] {
			t.Errorf("%s: expected {%s:true}, got %v", tt.path, tt.key, body)
		}
	}
}

func TestCreate_SignupCannotGrantAdmin(t *testing.T) {
	e := newEnv(t)

	rec := testutil.Serve(e.router, testutil.NewRequest(t, "POST", "/users", map[string]any{"email": "eve@test.com", "role": "admin"}))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.Serve(e.router, testutil.NewAuthenticatedRequest(t, "GET", "/users", "eve@test.com", nil))
	rec.AssertJSONError(t, http.StatusForbidden, uierrors.MsgForbidden)
}
