package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

var testSecret = []byte("server-secret")

func setupTestHandlers(t *testing.T, opts ...Option) (http.Handler, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return New(s, opts...).Router(), s
}

func serve(h http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListTodos(t *testing.T) {
	h, s := setupTestHandlers(t)
	ctx := context.Background()

	s.CreateTodo(ctx, &model.Todo{UserID: 1, Title: "Mine"})
	s.CreateTodo(ctx, &model.Todo{UserID: 2, Title: "Theirs"})

	rec := serve(h, "GET", "/todos?userId=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var todos []model.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "Mine" {
		t.Errorf("expected only user 1 todos, got %+v", todos)
	}
}

func TestListTodosEmptyIsArray(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := serve(h, "GET", "/todos?userId=5", "")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestListTodosRequiresUserID(t *testing.T) {
	h, _ := setupTestHandlers(t)

	for _, target := range []string{"/todos", "/todos?userId=x", "/todos?userId=0"} {
		rec := serve(h, "GET", target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status %d, got %d", target, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestCreateTodo(t *testing.T) {
	h, s := setupTestHandlers(t)

	rec := serve(h, "POST", "/todos", `{"title":"  Buy milk ","userId":3,"completed":false}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var todo model.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todo); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if todo.ID == 0 || todo.Title != "Buy milk" || todo.UserID != 3 || todo.Completed {
		t.Errorf("unexpected todo %+v", todo)
	}

	todos, _ := s.ListTodos(context.Background(), 3)
	if len(todos) != 1 {
		t.Errorf("expected 1 stored todo, got %d", len(todos))
	}
}

func TestCreateTodoValidation(t *testing.T) {
	h, _ := setupTestHandlers(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"empty title", `{"title":"   ","userId":1}`},
		{"missing user", `{"title":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, "POST", "/todos", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestDeleteTodo(t *testing.T) {
	h, s := setupTestHandlers(t)
	ctx := context.Background()

	todo := &model.Todo{UserID: 1, Title: "Remove me"}
	s.CreateTodo(ctx, todo)

	rec := serve(h, "DELETE", "/todos/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	rec = serve(h, "DELETE", "/todos/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d on repeat, got %d", http.StatusNotFound, rec.Code)
	}

	rec = serve(h, "DELETE", "/todos/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestRequestIDIsEchoedIntoContext(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := serve(h, "GET", "/healthz", "", "X-Request-Id", "abc-123")
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	h, s := setupTestHandlers(t, WithJWTSecret(testSecret))
	ctx := context.Background()

	mine := &model.Todo{UserID: 1, Title: "Mine"}
	theirs := &model.Todo{UserID: 2, Title: "Theirs"}
	s.CreateTodo(ctx, mine)
	s.CreateTodo(ctx, theirs)

	token, err := auth.Sign(1, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	bearer := "Bearer " + token

	if rec := serve(h, "GET", "/todos?userId=1", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing header: expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if rec := serve(h, "GET", "/todos?userId=1", "", "Authorization", "Token abc"); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad scheme: expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if rec := serve(h, "GET", "/todos?userId=1", "", "Authorization", "Bearer garbage"); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	if rec := serve(h, "GET", "/todos?userId=1", "", "Authorization", bearer); rec.Code != http.StatusOK {
		t.Errorf("own list: expected %d, got %d", http.StatusOK, rec.Code)
	}
	if rec := serve(h, "GET", "/todos?userId=2", "", "Authorization", bearer); rec.Code != http.StatusForbidden {
		t.Errorf("other list: expected %d, got %d", http.StatusForbidden, rec.Code)
	}
	if rec := serve(h, "POST", "/todos", `{"title":"x","userId":2}`, "Authorization", bearer); rec.Code != http.StatusForbidden {
		t.Errorf("create for other: expected %d, got %d", http.StatusForbidden, rec.Code)
	}
	if rec := serve(h, "DELETE", "/todos/2", "", "Authorization", bearer); rec.Code != http.StatusForbidden {
		t.Errorf("delete other: expected %d, got %d", http.StatusForbidden, rec.Code)
	}
	if rec := serve(h, "DELETE", "/todos/1", "", "Authorization", bearer); rec.Code != http.StatusNoContent {
		t.Errorf("delete own: expected %d, got %d", http.StatusNoContent, rec.Code)
	}
}
