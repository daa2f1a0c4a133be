// Package store persists todos for the local development API server.
package store

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrNotFound is returned when no todo has the requested id.
var ErrNotFound = errors.New("todo not found")

// Store defines the persistence operations behind the /todos resource.
type Store interface {
	ListTodos(ctx context.Context, userID int) ([]model.Todo, error)
	GetTodo(ctx context.Context, id int) (*model.Todo, error)
	CreateTodo(ctx context.Context, todo *model.Todo) error
	DeleteTodo(ctx context.Context, id int) error

	// Lifecycle
	Close() error
}
