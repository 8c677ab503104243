// Package codec implements the interchangeable secret-encoding schemes.
//
// A Codec pairs an encode and a decode transform. Failures are reported as
// errors to the immediate caller and never escape as panics: a malformed
// ciphertext yields ("", err), which the vault turns into a per-entry
// marker rather than a crash.
//
// None of the schemes are cryptographically secure. They reproduce the
// obfuscation-grade behavior of the legacy data format exactly, including
// its known weaknesses.
package codec

import (
	"fmt"

	"github.com/akraynov/passlock/internal/models"
)

// Codec encodes and decodes a secret string.
type Codec interface {
	Encode(plaintext string) (string, error)
	Decode(ciphertext string) (string, error)
}

// New returns the Codec for the given kind.
//
// The set of kinds is closed. Passing anything outside it is a programming
// error and panics; tags read from files must go through
// models.ParseCipherKind first, which reports unknown tags as an error.
func New(kind models.CipherKind) Codec {
	switch kind {
	case models.CipherPlain:
		return Plain{}
	case models.CipherBase64:
		return Base64{}
	case models.CipherSalted:
		return Salted{}
	case models.CipherFeistel:
		return Feistel{}
	default:
		panic(fmt.Sprintf("codec: unknown cipher kind %q", kind))
	}
}
