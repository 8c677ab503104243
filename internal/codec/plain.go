package codec

// Plain is the no-obfuscation baseline: both directions return the input
// unchanged. It is what a user gets when they opt out of encoding.
type Plain struct{}

func (Plain) Encode(plaintext string) (string, error) { return plaintext, nil }

func (Plain) Decode(ciphertext string) (string, error) { return ciphertext, nil }
