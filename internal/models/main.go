// Package models defines the core data structures for users and stored credentials.
package models

import "fmt"

// User represents an application account used to open a vault.
type User struct {
	// Username is the login name chosen by the user. Unique.
	Username string
	// PasswordHash is the Base64-encoded salted SHA-256 hash of the password.
	PasswordHash string
}

// Entry is one stored credential: a service, the login used for it, and the
// secret in its encoded-at-rest form together with the cipher that produced it.
type Entry struct {
	// Service is the name of the service the credential belongs to ("Google", "GitHub", ...).
	Service string `json:"service"`
	// Account is the login or email used with the service.
	Account string `json:"account"`
	// Secret holds the codec output. It is never persisted decoded.
	Secret string `json:"secret"`
	// Cipher identifies the codec that encoded Secret.
	Cipher CipherKind `json:"cipher"`
}

// CipherLabel returns the human-readable name of the entry's cipher,
// for display in listings.
func (e Entry) CipherLabel() string {
	return e.Cipher.Description()
}

// CipherKind selects one of the closed set of encoding schemes.
// Its string value is the exact tag written to the envelope file.
type CipherKind string

const (
	// CipherPlain stores the secret as-is.
	CipherPlain CipherKind = "PLAIN"
	// CipherBase64 stores the secret Base64-encoded.
	CipherBase64 CipherKind = "BASE64"
	// CipherSalted stores the secret double-Base64-encoded with a random salt prefix.
	CipherSalted CipherKind = "SALTED"
	// CipherFeistel stores the secret through an 8-round Feistel network, hex-encoded.
	CipherFeistel CipherKind = "FEISTEL"
)

// Description returns the display label of the cipher kind.
func (k CipherKind) Description() string {
	switch k {
	case CipherPlain:
		return "plain text"
	case CipherBase64:
		return "Base64 encoding"
	case CipherSalted:
		return "salted Base64"
	case CipherFeistel:
		return "Feistel cipher"
	default:
		return "unknown"
	}
}

// ParseCipherKind validates a cipher tag read from untrusted input, such as
// an envelope file. Unlike the codec factory, an unknown tag here is a data
// error, not a programmer fault.
func ParseCipherKind(tag string) (CipherKind, error) {
	switch k := CipherKind(tag); k {
	case CipherPlain, CipherBase64, CipherSalted, CipherFeistel:
		return k, nil
	default:
		return "", fmt.Errorf("unknown cipher tag %q", tag)
	}
}
