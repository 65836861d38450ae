package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mindx-labs/coursecms/internal/httpapi"
	"github.com/mindx-labs/coursecms/internal/selection"
	"github.com/mindx-labs/coursecms/internal/session"
	"github.com/mindx-labs/coursecms/internal/workspace"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	store := workspace.NewMemoryStore()
	ws, err := workspace.New(ctx, store)
	if err != nil {
		t.Fatalf("workspace.New() error = %v", err)
	}
	sessions := session.NewManager(session.DefaultCredentials(), ws)
	sel := selection.Restore(ctx, store, ws.Draft())

	return httpapi.NewServer(ws, sessions, sel, nil).Handler([]string{"http://localhost:5173"})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, username, password string) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body = %s", username, rec.Code, rec.Body)
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %s: %v", rec.Body, err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := do(t, h, http.MethodGet, path, nil); rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestLogin(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/login", map[string]string{
		"username": "admin", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/login", map[string]string{
		"username": "admin", "password": "r&dk1@@025",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body)
	}
	var user session.User
	decode(t, rec, &user)
	if user.Role != session.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/login", map[string]string{"username": "admin"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCatalog_RequiresLogin(t *testing.T) {
	h := newTestServer(t)

	if rec := do(t, h, http.MethodGet, "/api/catalog", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	login(t, h, "mindx", "123")
	rec := do(t, h, http.MethodGet, "/api/catalog", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var payload struct {
		Tree  json.RawMessage `json:"tree"`
		Dirty bool            `json:"dirty"`
	}
	decode(t, rec, &payload)
	if len(payload.Tree) == 0 {
		t.Error("catalog response has no tree")
	}
	if payload.Dirty {
		t.Error("fresh catalog is dirty")
	}
}

func TestMutations_RequireAdmin(t *testing.T) {
	h := newTestServer(t)
	login(t, h, "mindx", "123")

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/paths/lp-coding/courses", map[string]any{"name": "X", "ageGroup": "6+"}},
		{http.MethodDelete, "/api/paths/lp-coding/courses/c-code-1", nil},
		{http.MethodPost, "/api/save", nil},
		{http.MethodPost, "/api/discard", nil},
		{http.MethodPost, "/api/documents?pathId=lp-coding", map[string]string{"category": "Slide", "name": "X", "url": "#"}},
	}
	for _, tc := range cases {
		if rec := do(t, h, tc.method, tc.path, tc.body); rec.Code != http.StatusForbidden {
			t.Errorf("%s %s status = %d, want 403", tc.method, tc.path, rec.Code)
		}
	}
}

func TestCourseLifecycle(t *testing.T) {
	h := newTestServer(t)
	login(t, h, "admin", "r&dk1@@025")

	rec := do(t, h, http.MethodPost, "/api/paths/lp-coding/courses", map[string]any{
		"name":     "AI Explorer",
		"year":     2026,
		"ageGroup": "12+",
		"tools":    []string{"Python"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add course status = %d, body = %s", rec.Code, rec.Body)
	}
	var created struct {
		ID    string `json:"id"`
		Dirty bool   `json:"dirty"`
	}
	decode(t, rec, &created)
	if created.ID == "" || !created.Dirty {
		t.Fatalf("add course response = %+v", created)
	}

	rec = do(t, h, http.MethodPatch, "/api/paths/lp-coding/courses/"+created.ID, map[string]any{
		"name": "AI Explorer Pro",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update course status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodPost, "/api/save", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", rec.Code, rec.Body)
	}
	var saved struct {
		Dirty bool `json:"dirty"`
	}
	decode(t, rec, &saved)
	if saved.Dirty {
		t.Error("dirty after save")
	}

	rec = do(t, h, http.MethodDelete, "/api/paths/lp-coding/courses/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete course status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestMutation_UnknownTargetIs404(t *testing.T) {
	h := newTestServer(t)
	login(t, h, "admin", "r&dk1@@025")

	rec := do(t, h, http.MethodDelete, "/api/paths/lp-coding/courses/c-nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAddLevel_RejectsInvalidName(t *testing.T) {
	h := newTestServer(t)
	login(t, h, "admin", "r&dk1@@025")

	rec := do(t, h, http.MethodPost, "/api/paths/lp-coding/courses/c-code-1/levels", map[string]string{
		"name": "Expert",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	h := newTestServer(t)
	login(t, h, "admin", "r&dk1@@025")

	rec := do(t, h, http.MethodPost, "/api/documents?pathId=lp-coding&courseId=c-code-1", map[string]string{
		"category": "Homework",
		"name":     "Bài tập tuần 2",
		"url":      "https://example.com/hw2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add document status = %d, body = %s", rec.Code, rec.Body)
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)

	rec = do(t, h, http.MethodPatch, "/api/documents/"+created.ID+"?pathId=lp-coding&courseId=c-code-1", map[string]string{
		"name": "Bài tập tuần 2 (bản mới)",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update document status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodDelete, "/api/documents/"+created.ID+"?pathId=lp-coding&courseId=c-code-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete document status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestDiscard(t *testing.T) {
	h := newTestServer(t)
	login(t, h, "admin", "r&dk1@@025")

	rec := do(t, h, http.MethodPost, "/api/paths/lp-coding/courses", map[string]any{
		"name": "Temp", "ageGroup": "6+",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add course status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/discard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("discard status = %d, body = %s", rec.Code, rec.Body)
	}
	var payload struct {
		Dirty bool `json:"dirty"`
	}
	decode(t, rec, &payload)
	if payload.Dirty {
		t.Error("dirty after discard")
	}
}

func TestLogout_DirtyGuard(t *testing.T) {
	h := newTestServer(t)
	login(t, h, "admin", "r&dk1@@025")

	rec := do(t, h, http.MethodPost, "/api/paths/lp-coding/courses", map[string]any{
		"name": "Temp", "ageGroup": "6+",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add course status = %d", rec.Code)
	}

	if rec := do(t, h, http.MethodPost, "/api/logout", nil); rec.Code != http.StatusConflict {
		t.Fatalf("logout with dirty draft status = %d, want 409", rec.Code)
	}

	// Still logged in after the refused logout.
	if rec := do(t, h, http.MethodGet, "/api/catalog", nil); rec.Code != http.StatusOK {
		t.Errorf("catalog after refused logout status = %d", rec.Code)
	}

	if rec := do(t, h, http.MethodPost, "/api/logout", map[string]bool{"force": true}); rec.Code != http.StatusOK {
		t.Fatalf("forced logout status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/catalog", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("catalog after logout status = %d, want 401", rec.Code)
	}
}

func TestSelection(t *testing.T) {
	h := newTestServer(t)
	login(t, h, "mindx", "123")

	rec := do(t, h, http.MethodPut, "/api/selection", map[string]string{
		"pathId": "lp-coding", "courseId": "c-code-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("selection status = %d, body = %s", rec.Code, rec.Body)
	}
	var sel struct {
		PathID   string `json:"pathId"`
		CourseID string `json:"courseId"`
	}
	decode(t, rec, &sel)
	if sel.PathID != "lp-coding" || sel.CourseID != "c-code-1" {
		t.Errorf("selection = %+v", sel)
	}

	// A course that does not exist in the path is rejected by validation.
	rec = do(t, h, http.MethodPut, "/api/selection", map[string]string{
		"pathId": "lp-art", "courseId": "c-code-1",
	})
	decode(t, rec, &sel)
	if sel.PathID != "lp-art" || sel.CourseID != "" {
		t.Errorf("selection = %+v, want lp-art with no course", sel)
	}
}

func TestSearchEndpoint(t *testing.T) {
	h := newTestServer(t)

	if rec := do(t, h, http.MethodGet, "/api/search?q=Scratch", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated search status = %d, want 401", rec.Code)
	}

	login(t, h, "mindx", "123")
	rec := do(t, h, http.MethodGet, "/api/search?q=Scratch", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d, body = %s", rec.Code, rec.Body)
	}
	var payload struct {
		Results []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"results"`
	}
	decode(t, rec, &payload)
	if len(payload.Results) == 0 {
		t.Fatal("search returned no results")
	}
	if payload.Results[0].ID != "c-code-1" || payload.Results[0].Type != "course" {
		t.Errorf("first result = %+v", payload.Results[0])
	}

	// Short queries come back empty, not as errors.
	rec = do(t, h, http.MethodGet, "/api/search?q=S", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("short query status = %d", rec.Code)
	}
	decode(t, rec, &payload)
	if len(payload.Results) != 0 {
		t.Errorf("short query results = %d, want 0", len(payload.Results))
	}
}

func TestExportEndpoint(t *testing.T) {
	h := newTestServer(t)
	login(t, h, "mindx", "123")

	rec := do(t, h, http.MethodGet, "/api/export.xlsx", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("export body is empty")
	}
}
