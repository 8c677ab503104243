// Package service provides authentication business logic,
// delegating persistence to a UserRepository.
package service

import (
	"context"
	"errors"

	"github.com/akraynov/passlock/internal/repository"
	"github.com/akraynov/passlock/internal/users"
)

// UserRepository defines the persistence operations
// required by the authentication service.
type UserRepository interface {
	// UserExists returns true if a user with the given login exists.
	UserExists(ctx context.Context, login string) (bool, error)
	// CreateUser stores a new user with the given login and password hash.
	CreateUser(ctx context.Context, login, passwordHash string) error
	// PasswordHash returns the stored hash for the login, or
	// repository.ErrNotFound when no such user exists.
	PasswordHash(ctx context.Context, login string) (string, error)
}

// AuthService implements registration and login on top of a UserRepository,
// applying the same validation and hashing rules as the file-backed store.
type AuthService struct {
	// repo performs the data-layer operations.
	repo UserRepository
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Register validates the registration input and creates the account.
// Validation failures surface as the users package sentinels
// (ErrEmptyField, ErrPasswordTooShort, ErrPasswordMismatch, ErrUserExists)
// so callers can branch on each condition individually.
func (s *AuthService) Register(ctx context.Context, login, password, confirm string) error {
	if err := users.ValidateRegistration(login, password, confirm); err != nil {
		return err
	}

	exists, err := s.repo.UserExists(ctx, login)
	if err != nil {
		return err
	}
	if exists {
		return users.ErrUserExists
	}

	return s.repo.CreateUser(ctx, login, users.HashPassword(password))
}

// Authenticate verifies the login and password. Unknown users and wrong
// passwords both fail with users.ErrInvalidCredentials; repository failures
// are returned as-is.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) error {
	if login == "" || password == "" {
		return users.ErrInvalidCredentials
	}

	hash, err := s.repo.PasswordHash(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		return users.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	if users.HashPassword(password) != hash {
		return users.ErrInvalidCredentials
	}
	return nil
}
