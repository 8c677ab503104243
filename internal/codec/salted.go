package codec

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	saltLength    = 16
	saltDelimiter = ":"
)

// Salted prefixes the secret with a fresh random salt before Base64 encoding.
//
// Encode produces Base64(Base64(salt) + ":" + plaintext). The salt is drawn
// from crypto/rand on every call, so encoding the same secret twice yields
// different ciphertexts. Decode strips the salt and returns the tail verbatim;
// the salt takes no part in decoding. It only randomizes the ciphertext.
type Salted struct{}

func (Salted) Encode(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	combined := base64.StdEncoding.EncodeToString(salt) + saltDelimiter + plaintext
	return base64.StdEncoding.EncodeToString([]byte(combined)), nil
}

func (Salted) Decode(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	parts := strings.SplitN(string(raw), saltDelimiter, 2)
	if len(parts) != 2 {
		return "", errors.New("malformed salted payload: no delimiter")
	}
	return parts[1], nil
}
