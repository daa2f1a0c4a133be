// Package server serves the /todos REST resource for local development.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Makepad-fr/tada/internal/store"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store  store.Store
	logger *log.Logger
	secret []byte
}

// Option configures Handlers.
type Option func(*Handlers)

// WithLogger sets the request logger. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(h *Handlers) { h.logger = l }
}

// WithJWTSecret requires an HS256 bearer token whose userId claim owns
// every todo the request touches.
func WithJWTSecret(secret []byte) Option {
	return func(h *Handlers) { h.secret = secret }
}

// New creates a new Handlers instance.
func New(s store.Store, opts ...Option) *Handlers {
	h := &Handlers{
		store:  s,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router wires the routes and middleware.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Group(func(r chi.Router) {
		if len(h.secret) > 0 {
			r.Use(h.requireToken)
		}
		r.Get("/todos", h.ListTodos)
		r.Post("/todos", h.CreateTodo)
		r.Delete("/todos/{id}", h.DeleteTodo)
	})

	return r
}

// parseID extracts and parses an integer ID from URL parameters.
func parseID(r *http.Request, param string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, param))
}

// respondError sends a plain-text error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func (h *Handlers) respondServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("internal server error", "err", err, "request_id", middleware.GetReqID(r.Context()))
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (h *Handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Info(r.Method+" "+r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type ctxKey struct{}

// userFrom returns the authenticated user id, or 0 when auth is off.
func userFrom(ctx context.Context) int {
	id, _ := ctx.Value(ctxKey{}).(int)
	return id
}
