package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
)

func setupTestDB(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateTodo(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	todo := &model.Todo{UserID: 7, Title: "Buy milk"}
	if err := store.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}
	if todo.ID == 0 {
		t.Error("expected todo ID to be set")
	}

	got, err := store.GetTodo(ctx, todo.ID)
	if err != nil {
		t.Fatalf("GetTodo failed: %v", err)
	}
	if *got != *todo {
		t.Errorf("expected %+v, got %+v", *todo, *got)
	}
}

func TestCreateTodoRejectsBlankTitle(t *testing.T) {
	store := setupTestDB(t)

	err := store.CreateTodo(context.Background(), &model.Todo{UserID: 7, Title: "   "})
	if err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestCreateTodoAssignsUniqueIDs(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	seen := map[int]bool{}
	for i := 0; i < 5; i++ {
		todo := &model.Todo{UserID: 1, Title: "Task"}
		if err := store.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
		if seen[todo.ID] {
			t.Fatalf("duplicate id %d", todo.ID)
		}
		seen[todo.ID] = true
	}
}

func TestListTodosScopedByUser(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	store.CreateTodo(ctx, &model.Todo{UserID: 1, Title: "First"})
	store.CreateTodo(ctx, &model.Todo{UserID: 2, Title: "Other user"})
	store.CreateTodo(ctx, &model.Todo{UserID: 1, Title: "Second", Completed: true})

	todos, err := store.ListTodos(ctx, 1)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(todos))
	}
	if todos[0].Title != "First" || todos[1].Title != "Second" {
		t.Errorf("expected creation order, got %+v", todos)
	}
	if !todos[1].Completed {
		t.Error("expected second todo to be completed")
	}

	empty, err := store.ListTodos(ctx, 99)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestDeleteTodo(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	todo := &model.Todo{UserID: 1, Title: "Remove me"}
	store.CreateTodo(ctx, todo)

	if err := store.DeleteTodo(ctx, todo.ID); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	_, err := store.GetTodo(ctx, todo.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := store.DeleteTodo(ctx, todo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestFileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.db")
	ctx := context.Background()

	s1, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s1.CreateTodo(ctx, &model.Todo{UserID: 3, Title: "Persisted"})
	s1.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	todos, err := s2.ListTodos(ctx, 3)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "Persisted" {
		t.Errorf("expected persisted todo, got %+v", todos)
	}
}
