// Package envelope implements the binary record layout shared by the vault
// and user files: a big-endian int32 count followed by length-prefixed UTF-8
// text fields (uint16 byte length, then the bytes), optionally wrapped as a
// single Base64 block.
//
// The layout is fixed by existing files on disk and must not change.
package envelope

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrFieldTooLong reports a string that does not fit the uint16 length prefix.
var ErrFieldTooLong = errors.New("envelope: field exceeds 65535 bytes")

// Writer serializes counts and strings into an in-memory buffer.
type Writer struct {
	buf bytes.Buffer
}

// WriteCount appends a big-endian int32.
func (w *Writer) WriteCount(n int) {
	_ = binary.Write(&w.buf, binary.BigEndian, int32(n))
}

// WriteString appends a uint16 byte-length prefix followed by the string bytes.
func (w *Writer) WriteString(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("%w: %d", ErrFieldTooLong, len(s))
	}
	_ = binary.Write(&w.buf, binary.BigEndian, uint16(len(s)))
	w.buf.WriteString(s)
	return nil
}

// Bytes returns the serialized content.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Reader parses the binary layout back out of a byte slice.
//
// A read that starts cleanly at the end of data fails with io.EOF; a read
// that runs out of bytes partway through a count, a length prefix, or a
// field body fails with io.ErrUnexpectedEOF. Loaders rely on the distinction
// to detect the legacy record shape.
type Reader struct {
	r *bytes.Reader
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{r: bytes.NewReader(data)}
}

// ReadCount reads a big-endian int32.
func (r *Reader) ReadCount() (int, error) {
	var n int32
	if err := binary.Read(r.r, binary.BigEndian, &n); err != nil {
		return 0, err
	}
	return int(n), nil
}

// ReadString reads one length-prefixed string.
func (r *Reader) ReadString() (string, error) {
	var n uint16
	if err := binary.Read(r.r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	field := make([]byte, n)
	if _, err := io.ReadFull(r.r, field); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return string(field), nil
}

// Len reports the number of unread bytes.
func (r *Reader) Len() int {
	return r.r.Len()
}

// Seal wraps a serialized blob as the single Base64 line stored on disk.
func Seal(raw []byte) []byte {
	return []byte(base64.StdEncoding.EncodeToString(raw))
}

// Open reverses Seal.
func Open(content []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(string(content))
	if err != nil {
		return nil, fmt.Errorf("envelope: decode base64: %w", err)
	}
	return raw, nil
}
