// Package users manages application accounts: registration, login
// verification, and persistence of the username→hash map in the shared
// user file.
package users

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/akraynov/passlock/internal/envelope"
	"github.com/akraynov/passlock/internal/models"
)

// UsersFileName is the single shared account file for all users.
const UsersFileName = "users.dat"

// saltPrefix is the static part of the password hash salt. There is no
// per-user random salt; the scheme is deliberately kept as the legacy
// format defined it.
const saltPrefix = "PM2024!"

// Registration and login failures the caller branches on individually.
var (
	ErrEmptyField         = errors.New("field must not be empty")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Manager owns the account map and its file lifecycle. One instance per
// process, passed explicitly to call sites.
type Manager struct {
	path  string
	users map[string]models.User
	log   *zap.Logger
}

// NewManager creates a Manager rooted at dir and loads the user file if one
// exists. A corrupt file leaves the manager empty with the error logged.
func NewManager(dir string, log *zap.Logger) *Manager {
	m := &Manager{
		path:  filepath.Join(dir, UsersFileName),
		users: make(map[string]models.User),
		log:   log,
	}
	if err := m.load(); err != nil {
		m.log.Error("failed to load users", zap.String("path", m.path), zap.Error(err))
	}
	return m
}

// Register creates a new account after validating the input. Each failure is
// a distinct sentinel: ErrEmptyField, ErrPasswordTooShort,
// ErrPasswordMismatch, ErrUserExists.
func (m *Manager) Register(username, password, confirm string) error {
	if err := ValidateRegistration(username, password, confirm); err != nil {
		m.log.Warn("registration rejected", zap.String("user", username), zap.Error(err))
		return err
	}
	if _, ok := m.users[username]; ok {
		m.log.Warn("registration for existing user", zap.String("user", username))
		return ErrUserExists
	}

	m.users[username] = models.User{
		Username:     username,
		PasswordHash: HashPassword(password),
	}
	if err := m.save(); err != nil {
		return err
	}

	m.log.Info("registered user", zap.String("user", username))
	return nil
}

// Login verifies the credentials and returns the account. Empty fields,
// unknown usernames and wrong passwords all fail with ErrInvalidCredentials;
// none of them crash past this boundary.
func (m *Manager) Login(username, password string) (models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, ok := m.users[username]
	if !ok {
		m.log.Warn("login for unknown user", zap.String("user", username))
		return models.User{}, ErrInvalidCredentials
	}
	if HashPassword(password) != user.PasswordHash {
		m.log.Warn("wrong password", zap.String("user", username))
		return models.User{}, ErrInvalidCredentials
	}

	m.log.Info("login successful", zap.String("user", username))
	return user, nil
}

// Exists reports whether an account with the username is registered.
func (m *Manager) Exists(username string) bool {
	_, ok := m.users[username]
	return ok
}

// Count returns the number of registered accounts.
func (m *Manager) Count() int {
	return len(m.users)
}

// HashPassword hashes a password with the static-prefix salt:
// Base64(SHA-256(prefix + decimal password length + password)). One-way,
// with no per-user randomness. The scheme is fixed by existing user files.
func HashPassword(password string) string {
	salt := fmt.Sprintf("%s%d", saltPrefix, utf8.RuneCountInString(password))
	sum := sha256.Sum256([]byte(salt + password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// load reads the user file: int32 count, then (username, hash) pairs.
func (m *Manager) load() error {
	content, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.log.Info("user file not found, starting empty", zap.String("path", m.path))
			return nil
		}
		return fmt.Errorf("read users: %w", err)
	}

	r := envelope.NewReader(content)
	count, err := r.ReadCount()
	if err != nil {
		return fmt.Errorf("read user count: %w", err)
	}
	if count < 0 {
		return fmt.Errorf("invalid user count %d", count)
	}

	loaded := make(map[string]models.User, count)
	for i := 0; i < count; i++ {
		username, err := r.ReadString()
		if err != nil {
			return fmt.Errorf("read user %d: %w", i, err)
		}
		hash, err := r.ReadString()
		if err != nil {
			return fmt.Errorf("read user %d: %w", i, err)
		}
		loaded[username] = models.User{Username: username, PasswordHash: hash}
	}

	m.users = loaded
	m.log.Info("loaded users", zap.Int("count", count))
	return nil
}

// save rewrites the whole user file.
func (m *Manager) save() error {
	var w envelope.Writer
	w.WriteCount(len(m.users))
	for _, u := range m.users {
		if err := w.WriteString(u.Username); err != nil {
			return err
		}
		if err := w.WriteString(u.PasswordHash); err != nil {
			return err
		}
	}
	if err := os.WriteFile(m.path, w.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	m.log.Info("saved users", zap.Int("count", len(m.users)))
	return nil
}
