package codec

import (
	"encoding/base64"
	"fmt"
)

// Base64 encodes the secret's UTF-8 bytes as standard Base64 text.
type Base64 struct{}

func (Base64) Encode(plaintext string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(plaintext)), nil
}

func (Base64) Decode(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	return string(raw), nil
}
