package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/Makepad-fr/tada/internal/auth"
)

// requireToken checks for a valid JWT in the Authorization header and
// adds the user ID to the request context.
func (h *Handlers) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			respondError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := auth.Verify(strings.TrimSpace(token), h.secret)
		if err != nil {
			h.logger.Warn("rejected token", "err", err)
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if claims.UserID <= 0 {
			respondError(w, http.StatusUnauthorized, "token has no user")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// owns reports whether the caller may act on userID's todos.
func owns(r *http.Request, userID int) bool {
	caller := userFrom(r.Context())
	return caller == 0 || caller == userID
}
