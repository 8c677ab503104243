// Package http provides HTTP handlers for user authentication and vault
// access.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akraynov/passlock/internal/middleware"
	"github.com/akraynov/passlock/internal/users"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register validates the input and creates the account. Validation
	// failures are the users package sentinels.
	Register(ctx context.Context, login, password, confirm string) error
	// Authenticate verifies the credentials, failing with
	// users.ErrInvalidCredentials when they do not match.
	Authenticate(ctx context.Context, login, password string) error
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Sessions issues tokens for authenticated logins.
	Sessions *middleware.Sessions
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Register handles user registration requests.
// Each distinct registration failure maps to its own response: empty fields,
// a short password and mismatched passwords are 400s with the condition's
// message, a taken username is 409.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	err := h.AuthService.Register(r.Context(), req.Login, req.Password, req.Confirm)
	switch {
	case err == nil:
	case errors.Is(err, users.ErrUserExists):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, users.ErrEmptyField),
		errors.Is(err, users.ErrPasswordTooShort),
		errors.Is(err, users.ErrPasswordMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"user":   req.Login,
	})
}

// Login handles login requests. On success it issues a session token the
// client presents as a bearer token on vault requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	err := h.AuthService.Authenticate(r.Context(), req.Login, req.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"token": h.Sessions.Create(req.Login),
	})
}
