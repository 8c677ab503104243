// Package http provides HTTP routing and middleware configuration
// for the passlock service.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/akraynov/passlock/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the passlock
// API. It applies JSON content-type enforcement and request logging, and
// mounts the registration, login, and vault endpoints under /api.
//
// Routes:
//
//	POST   /api/register       → authHandler.Register
//	POST   /api/login          → authHandler.Login
//	GET    /api/vault          → vaultHandler.List    (session required)
//	POST   /api/vault          → vaultHandler.Add     (session required)
//	DELETE /api/vault          → vaultHandler.Clear   (session required)
//	DELETE /api/vault/{index}  → vaultHandler.Remove  (session required)
func NewRouter(
	authHandler *AuthHandler,
	vaultHandler *VaultHandler,
	sessions *middleware.Sessions,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Protected group: requires a session token from /api/login
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(sessions))
			r.Get("/vault", vaultHandler.List)
			r.Post("/vault", vaultHandler.Add)
			r.Delete("/vault", vaultHandler.Clear)
			r.Delete("/vault/{index}", vaultHandler.Remove)
		})
	})

	return r
}
