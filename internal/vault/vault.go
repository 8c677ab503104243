// Package vault owns the ordered list of credential entries for one user and
// persists it to the user's envelope file.
//
// The envelope is all-or-nothing: a load either yields the full entry list or
// leaves the vault empty with the failure logged. Every mutating operation
// rewrites the whole file. The vault is exclusively owned by the session that
// opened it; there is no locking.
package vault

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/akraynov/passlock/internal/codec"
	"github.com/akraynov/passlock/internal/envelope"
	"github.com/akraynov/passlock/internal/models"
)

// DecryptFailedMarker replaces the secret of an entry whose ciphertext can no
// longer be decoded. One bad entry must not hide the rest of the listing.
const DecryptFailedMarker = "[decryption error]"

// Vault holds one user's credential entries, backed by an envelope file.
type Vault struct {
	username string
	path     string
	entries  []models.Entry
	log      *zap.Logger
}

// FileName returns the envelope file name for a username.
func FileName(username string) string {
	return "passwords_" + username + ".enc"
}

// New creates a vault for username rooted at dir and loads the existing
// envelope if one is present. A missing file is not an error: the vault
// starts empty. A corrupt file also leaves the vault empty; the parse error
// is logged and returned so callers may surface it.
func New(dir, username string, log *zap.Logger) (*Vault, error) {
	v := &Vault{
		username: username,
		path:     filepath.Join(dir, FileName(username)),
		log:      log,
	}
	if err := v.load(); err != nil {
		return v, err
	}
	return v, nil
}

// Path returns the envelope file path.
func (v *Vault) Path() string {
	return v.path
}

// Add encodes the secret with the chosen cipher, appends the entry, and
// rewrites the envelope. If encoding fails nothing is appended or written.
func (v *Vault) Add(service, account, secret string, kind models.CipherKind) error {
	encoded, err := codec.New(kind).Encode(secret)
	if err != nil {
		v.log.Error("failed to encode secret",
			zap.String("service", service),
			zap.String("cipher", string(kind)),
			zap.Error(err))
		return fmt.Errorf("encode secret: %w", err)
	}

	v.entries = append(v.entries, models.Entry{
		Service: service,
		Account: account,
		Secret:  encoded,
		Cipher:  kind,
	})
	if err := v.save(); err != nil {
		return err
	}

	v.log.Info("added entry",
		zap.String("user", v.username),
		zap.String("service", service),
		zap.String("cipher", string(kind)))
	return nil
}

// Entries returns a copy of all entries with secrets still encoded.
func (v *Vault) Entries() []models.Entry {
	out := make([]models.Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// EntriesDecrypted returns a copy of all entries with each secret decoded by
// its own cipher. An entry that fails to decode carries DecryptFailedMarker
// as its secret instead of aborting the listing.
func (v *Vault) EntriesDecrypted() []models.Entry {
	out := make([]models.Entry, 0, len(v.entries))
	for _, e := range v.entries {
		plain, err := codec.New(e.Cipher).Decode(e.Secret)
		if err != nil {
			v.log.Error("failed to decode secret",
				zap.String("service", e.Service),
				zap.String("cipher", string(e.Cipher)),
				zap.Error(err))
			plain = DecryptFailedMarker
		}
		e.Secret = plain
		out = append(out, e)
	}
	return out
}

// RemoveAt deletes the entry at the 0-based index and rewrites the envelope.
// An out-of-range index returns false and leaves the vault untouched.
func (v *Vault) RemoveAt(index int) bool {
	if index < 0 || index >= len(v.entries) {
		return false
	}
	removed := v.entries[index]
	v.entries = append(v.entries[:index], v.entries[index+1:]...)
	if err := v.save(); err != nil {
		v.log.Error("failed to save after removal", zap.Error(err))
	}
	v.log.Info("removed entry",
		zap.String("user", v.username),
		zap.String("service", removed.Service))
	return true
}

// Count returns the number of stored entries.
func (v *Vault) Count() int {
	return len(v.entries)
}

// Clear drops every entry and rewrites the envelope.
func (v *Vault) Clear() error {
	v.entries = nil
	if err := v.save(); err != nil {
		return err
	}
	v.log.Info("cleared all entries", zap.String("user", v.username))
	return nil
}

// load reads and parses the envelope file into memory.
func (v *Vault) load() error {
	content, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			v.log.Info("envelope file not found, starting empty",
				zap.String("path", v.path))
			return nil
		}
		return fmt.Errorf("read envelope: %w", err)
	}

	raw, err := envelope.Open(content)
	if err != nil {
		v.entries = nil
		v.log.Error("corrupt envelope", zap.String("path", v.path), zap.Error(err))
		return err
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		v.entries = nil
		v.log.Error("failed to parse envelope", zap.String("path", v.path), zap.Error(err))
		return err
	}

	v.entries = entries
	v.log.Info("loaded entries",
		zap.String("user", v.username),
		zap.Int("count", len(entries)))
	return nil
}

// save rewrites the envelope file from the in-memory entries: serialize into
// a fresh buffer, Base64 the whole buffer, overwrite the file. A crash in the
// middle of the write can corrupt the envelope; there is no recovery pass.
func (v *Vault) save() error {
	raw, err := encodeEntries(v.entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(v.path, envelope.Seal(raw), 0o600); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	v.log.Info("saved entries",
		zap.String("user", v.username),
		zap.Int("count", len(v.entries)))
	return nil
}

// encodeEntries serializes entries into the binary record layout.
func encodeEntries(entries []models.Entry) ([]byte, error) {
	var w envelope.Writer
	w.WriteCount(len(entries))
	for _, e := range entries {
		for _, field := range []string{e.Service, e.Account, e.Secret, string(e.Cipher)} {
			if err := w.WriteString(field); err != nil {
				return nil, err
			}
		}
	}
	return w.Bytes(), nil
}

// decodeEntries parses the strict record layout. If the data runs out
// mid-record it retries with the legacy layout that predates cipher tags.
// Only that condition triggers the fallback; any other parse error fails the
// load outright.
func decodeEntries(raw []byte) ([]models.Entry, error) {
	entries, err := decodeStrict(raw)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return decodeLegacy(raw)
	}
	return entries, err
}

func decodeStrict(raw []byte) ([]models.Entry, error) {
	r := envelope.NewReader(raw)
	count, err := r.ReadCount()
	if err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("invalid entry count %d", count)
	}

	// Read the full structure first. A legacy file, having three fields per
	// record instead of four, is guaranteed to run out of data somewhere in
	// this loop, which is the one condition the fallback keys on. Cipher tags
	// are validated only once the structure held together.
	records := make([][4]string, 0, count)
	for i := 0; i < count; i++ {
		var fields [4]string
		for j := range fields {
			if fields[j], err = r.ReadString(); err != nil {
				return nil, fmt.Errorf("read entry %d: %w", i, err)
			}
		}
		records = append(records, fields)
	}

	entries := make([]models.Entry, 0, count)
	for i, fields := range records {
		kind, err := models.ParseCipherKind(fields[3])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, models.Entry{
			Service: fields[0],
			Account: fields[1],
			Secret:  fields[2],
			Cipher:  kind,
		})
	}
	return entries, nil
}

// decodeLegacy parses the pre-cipher-tag layout: the leading count is present
// but not trusted, records are (service, account, secret) triples read until
// the data ends, and every recovered entry defaults to Base64.
func decodeLegacy(raw []byte) ([]models.Entry, error) {
	r := envelope.NewReader(raw)
	if _, err := r.ReadCount(); err != nil {
		return nil, fmt.Errorf("read legacy count: %w", err)
	}

	var entries []models.Entry
	for r.Len() > 0 {
		service, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("read legacy entry: %w", err)
		}
		account, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("read legacy entry: %w", err)
		}
		secret, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("read legacy entry: %w", err)
		}
		entries = append(entries, models.Entry{
			Service: service,
			Account: account,
			Secret:  secret,
			Cipher:  models.CipherBase64,
		})
	}
	return entries, nil
}
