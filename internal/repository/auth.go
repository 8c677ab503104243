// Package repository provides persistence implementations for the
// authentication service.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound reports a lookup for a user that does not exist.
var ErrNotFound = errors.New("user not found")

// PostgresUserRepository implements account persistence using a PostgreSQL
// database. It is the server-mode counterpart of the file-backed user store.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection. db must be a valid *sql.DB connected to a
// PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// UserExists checks whether a user with the specified login exists in the
// database. It returns true if the user exists, false otherwise.
// If an error occurs during the query, it is returned.
func (s *PostgresUserRepository) UserExists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`,
		login,
	).Scan(&exists)
	return exists, err
}

// CreateUser stores a new user record with the given login and password
// hash. If a user with the same login already exists, the ON CONFLICT DO
// NOTHING clause prevents an error. Returns any error encountered while
// executing the insertion.
func (s *PostgresUserRepository) CreateUser(ctx context.Context, login, passwordHash string) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO users (login, password_hash) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		login, passwordHash,
	)
	return err
}

// PasswordHash returns the stored password hash for the given login.
// A missing user is reported as ErrNotFound.
func (s *PostgresUserRepository) PasswordHash(ctx context.Context, login string) (string, error) {
	var hash string
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT password_hash FROM users WHERE login = $1`,
		login,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return hash, err
}
