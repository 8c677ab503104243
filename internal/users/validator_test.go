package users

import (
	"errors"
	"testing"
)

func TestPasswordLengthValid(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"", false},
		{"short", false},
		{"1234567", false},
		{"12345678", true},
		{"a much longer password", true},
		{"пароль12", true}, // 8 characters, more than 8 bytes
	}

	for _, tt := range tests {
		if got := PasswordLengthValid(tt.password); got != tt.want {
			t.Errorf("PasswordLengthValid(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

func TestValidateRegistration_Order(t *testing.T) {
	// Emptiness wins over length, length wins over mismatch.
	if err := ValidateRegistration("u", "", "short"); !errors.Is(err, ErrEmptyField) {
		t.Errorf("got %v, want ErrEmptyField", err)
	}
	if err := ValidateRegistration("u", "short", "different"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("got %v, want ErrPasswordTooShort", err)
	}
	if err := ValidateRegistration("u", "longenough", "different1"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("got %v, want ErrPasswordMismatch", err)
	}
	if err := ValidateRegistration("u", "longenough", "longenough"); err != nil {
		t.Errorf("got %v, want nil", err)
	}
}
