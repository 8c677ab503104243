package users

import (
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the minimum accepted password length, in characters.
const MinPasswordLength = 8

// PasswordLengthValid reports whether the password meets the minimum length.
func PasswordLengthValid(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// ValidateRegistration checks registration input and returns the first
// matching sentinel error: ErrEmptyField for any blank field,
// ErrPasswordTooShort, then ErrPasswordMismatch. Uniqueness is the
// store's concern, not the validator's.
func ValidateRegistration(username, password, confirm string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyField
	}
	if strings.TrimSpace(password) == "" {
		return ErrEmptyField
	}
	if strings.TrimSpace(confirm) == "" {
		return ErrEmptyField
	}
	if !PasswordLengthValid(password) {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
