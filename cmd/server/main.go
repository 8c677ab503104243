// Package main initializes and starts the passlock HTTP server,
// setting up configuration, logging, the database connection, the
// repository, service, and handlers.
package main

import (
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/akraynov/passlock/internal/config"
	"github.com/akraynov/passlock/internal/db"
	"github.com/akraynov/passlock/internal/logger"
	"github.com/akraynov/passlock/internal/middleware"
	"github.com/akraynov/passlock/internal/repository"
	"github.com/akraynov/passlock/internal/server/handler/http"
	"github.com/akraynov/passlock/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// orDefault returns s if it is non-empty, otherwise def. It matches the
// behavior of cmp.Or for strings, which is unavailable before Go 1.22.
func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", orDefault(version, "N/A"))
	fmt.Printf("Build date: %s\n", orDefault(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// Initialize the PostgreSQL account store.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize the repository and business-logic service.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	authService := service.NewAuthService(userRepo)

	// Session tokens for logged-in users.
	sessions := middleware.NewSessions()

	// Create HTTP handlers for auth and vault endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Sessions: sessions}
	vaultHandler := &http.VaultHandler{DataDir: options.DataDir, Logger: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, vaultHandler, sessions, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server",
		zap.String("addr", options.Port),
		zap.String("data_dir", options.DataDir))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
