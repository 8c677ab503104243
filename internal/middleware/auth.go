// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ctxKey string

const userKey ctxKey = "user"

// Sessions is the in-memory table of login session tokens. The server is a
// single process serving one console's worth of sessions, mirroring the
// desktop session model; there is no persistence and no expiry.
type Sessions struct {
	tokens map[string]string
}

// NewSessions returns an empty session table.
func NewSessions() *Sessions {
	return &Sessions{tokens: make(map[string]string)}
}

// Create issues a fresh token bound to the login.
func (s *Sessions) Create(login string) string {
	token := uuid.NewString()
	s.tokens[token] = login
	return token
}

// Lookup resolves a token back to its login.
func (s *Sessions) Lookup(token string) (string, bool) {
	login, ok := s.tokens[token]
	return login, ok
}

// SessionAuth is a middleware that enforces bearer-token authentication.
//
// It checks the Authorization header for a token issued by the login
// endpoint. On success it stores the session's login in the request context,
// so it can be used downstream as the authenticated user ID.
func SessionAuth(sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				http.Error(w, "no session token provided", http.StatusUnauthorized)
				return
			}
			login, ok := sessions.Lookup(token)
			if !ok {
				http.Error(w, "invalid session token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, login)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated login from the request
// context. Returns an empty string if not found.
func GetUserFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
