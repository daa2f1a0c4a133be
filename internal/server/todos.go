package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// ListTodos returns the todos of ?userId=.
func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil || userID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid userId")
		return
	}
	if !owns(r, userID) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	todos, err := h.store.ListTodos(r.Context(), userID)
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, todos)
}

// CreateTodo creates a todo from a JSON body {title, userId, completed}.
func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title     string `json:"title"`
		UserID    int    `json:"userId"`
		Completed bool   `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	todo := &model.Todo{
		UserID:    payload.UserID,
		Title:     strings.TrimSpace(payload.Title),
		Completed: payload.Completed,
	}
	if todo.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if todo.UserID <= 0 {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if !owns(r, todo.UserID) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.store.CreateTodo(r.Context(), todo); err != nil {
		h.respondServerError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, todo)
}

// DeleteTodo deletes a todo.
func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	todo, err := h.store.GetTodo(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "todo not found")
			return
		}
		h.respondServerError(w, r, err)
		return
	}
	if !owns(r, todo.UserID) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.store.DeleteTodo(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "todo not found")
			return
		}
		h.respondServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
