package users

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	return NewManager(dir, zap.NewNop()), dir
}

func TestRegister_Success(t *testing.T) {
	m, _ := newTestManager(t)

	if err := m.Register("alice", "longenough", "longenough"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !m.Exists("alice") {
		t.Error("expected alice to exist after registration")
	}
	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}
}

func TestRegister_DistinctFailures(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		want     error
	}{
		{"empty username", "", "longenough", "longenough", ErrEmptyField},
		{"empty password", "bob", "", "", ErrEmptyField},
		{"empty confirm", "bob", "longenough", "", ErrEmptyField},
		{"blank username", "   ", "longenough", "longenough", ErrEmptyField},
		{"short password", "bob", "short", "short", ErrPasswordTooShort},
		{"mismatch", "bob", "longenough", "different1", ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			err := m.Register(tt.username, tt.password, tt.confirm)
			if !errors.Is(err, tt.want) {
				t.Errorf("Register = %v, want %v", err, tt.want)
			}
			if m.Count() != 0 {
				t.Errorf("failed registration must not create a user, Count = %d", m.Count())
			}
		})
	}
}

func TestRegister_DuplicateUser(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.Register("carol", "longenough", "longenough"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := m.Register("carol", "otherpassword", "otherpassword"); !errors.Is(err, ErrUserExists) {
		t.Errorf("Register = %v, want ErrUserExists", err)
	}
}

func TestLogin(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.Register("dave", "correcthorse", "correcthorse"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := m.Login("dave", "correcthorse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Username != "dave" {
		t.Errorf("Username = %q, want %q", user.Username, "dave")
	}

	if _, err := m.Login("dave", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: Login = %v, want ErrInvalidCredentials", err)
	}
	if _, err := m.Login("nobody", "correcthorse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: Login = %v, want ErrInvalidCredentials", err)
	}
	if _, err := m.Login("", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty fields: Login = %v, want ErrInvalidCredentials", err)
	}
}

func TestManager_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, zap.NewNop())
	if err := m.Register("eve", "longenough", "longenough"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	reloaded := NewManager(dir, zap.NewNop())
	if !reloaded.Exists("eve") {
		t.Error("expected eve to survive a reload")
	}
	if _, err := reloaded.Login("eve", "longenough"); err != nil {
		t.Errorf("Login after reload failed: %v", err)
	}
}

func TestManager_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, UsersFileName), []byte{0xFF}, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	m := NewManager(dir, zap.NewNop())
	if m.Count() != 0 {
		t.Errorf("corrupt file must yield an empty manager, Count = %d", m.Count())
	}
}

func TestHashPassword(t *testing.T) {
	first := HashPassword("somepassword")
	second := HashPassword("somepassword")
	if first != second {
		t.Error("hash must be deterministic")
	}
	if first == HashPassword("otherpassword") {
		t.Error("different passwords must hash differently")
	}
	if first == "somepassword" {
		t.Error("hash must not be the plaintext")
	}
}
