package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Makepad-fr/tada/internal/model"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at dbPath.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection: SQLite has a single writer and ":memory:" is per-connection
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL CHECK(length(trim(title)) > 0),
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListTodos returns the user's todos in creation order.
func (s *SQLiteStore) ListTodos(ctx context.Context, userID int) ([]model.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, completed
		FROM todos WHERE user_id = ? ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}

	return todos, rows.Err()
}

// GetTodo retrieves a todo by ID.
func (s *SQLiteStore) GetTodo(ctx context.Context, id int) (*model.Todo, error) {
	t := &model.Todo{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, completed FROM todos WHERE id = ?
	`, id).Scan(&t.ID, &t.UserID, &t.Title, &t.Completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return t, nil
}

// CreateTodo inserts todo and sets its ID.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo *model.Todo) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (user_id, title, completed, created_at)
		VALUES (?, ?, ?, ?)
	`, todo.UserID, todo.Title, todo.Completed, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	todo.ID = int(id)

	return nil
}

// DeleteTodo removes a todo. Deleting a missing id is ErrNotFound.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
