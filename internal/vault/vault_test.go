package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akraynov/passlock/internal/codec"
	"github.com/akraynov/passlock/internal/envelope"
	"github.com/akraynov/passlock/internal/models"
)

func newTestVault(t *testing.T) (*Vault, string) {
	t.Helper()
	dir := t.TempDir()
	v, err := New(dir, "alice", zap.NewNop())
	require.NoError(t, err)
	return v, dir
}

func TestNew_MissingFileStartsEmpty(t *testing.T) {
	v, _ := newTestVault(t)
	assert.Zero(t, v.Count())
}

func TestAddAndListDecrypted(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.Add("Google", "u", "p", models.CipherSalted))

	entries := v.EntriesDecrypted()
	require.Len(t, entries, 1)
	assert.Equal(t, "Google", entries[0].Service)
	assert.Equal(t, "u", entries[0].Account)
	assert.Equal(t, "p", entries[0].Secret)
	assert.Equal(t, models.CipherSalted, entries[0].Cipher)
}

func TestAdd_SecretIsEncodedAtRest(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.Add("GitHub", "dev", "hunter22", models.CipherBase64))

	raw := v.Entries()
	require.Len(t, raw, 1)
	assert.NotEqual(t, "hunter22", raw[0].Secret)

	decoded, err := codec.New(models.CipherBase64).Decode(raw[0].Secret)
	require.NoError(t, err)
	assert.Equal(t, "hunter22", decoded)
}

func TestEntries_ReturnsCopy(t *testing.T) {
	v, _ := newTestVault(t)
	require.NoError(t, v.Add("Mail", "me", "pw123", models.CipherPlain))

	got := v.Entries()
	got[0].Service = "mutated"

	assert.Equal(t, "Mail", v.Entries()[0].Service)
}

func TestRemoveAt(t *testing.T) {
	v, _ := newTestVault(t)
	require.NoError(t, v.Add("one", "a", "1", models.CipherPlain))
	require.NoError(t, v.Add("two", "b", "2", models.CipherPlain))
	require.NoError(t, v.Add("three", "c", "3", models.CipherPlain))

	require.True(t, v.RemoveAt(1))
	assert.Equal(t, 2, v.Count())

	services := []string{v.Entries()[0].Service, v.Entries()[1].Service}
	assert.Equal(t, []string{"one", "three"}, services)
}

func TestRemoveAt_OutOfRange(t *testing.T) {
	v, _ := newTestVault(t)
	require.NoError(t, v.Add("only", "a", "1", models.CipherPlain))

	assert.False(t, v.RemoveAt(-1))
	assert.False(t, v.RemoveAt(1))
	assert.Equal(t, 1, v.Count())
}

func TestRemoveAt_EmptyVault(t *testing.T) {
	v, _ := newTestVault(t)
	assert.False(t, v.RemoveAt(0))
	assert.Zero(t, v.Count())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir, "bob", zap.NewNop())
	require.NoError(t, err)

	type cred struct {
		service, account, secret string
		kind                     models.CipherKind
	}
	creds := []cred{
		{"Google", "bob@gmail", "first pw", models.CipherPlain},
		{"GitHub", "bob", "второй пароль", models.CipherBase64},
		{"Bank", "bob99", "s3cr3t:money", models.CipherSalted},
		{"Work VPN", "b.smith", "odd-length", models.CipherFeistel},
	}
	for _, c := range creds {
		require.NoError(t, v.Add(c.service, c.account, c.secret, c.kind))
	}

	// Reconstruct from the same envelope path.
	reloaded, err := New(dir, "bob", zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, len(creds), reloaded.Count())

	decrypted := reloaded.EntriesDecrypted()
	for i, c := range creds {
		assert.Equal(t, c.service, decrypted[i].Service)
		assert.Equal(t, c.account, decrypted[i].Account)
		assert.Equal(t, c.kind, decrypted[i].Cipher)
		assert.Equal(t, c.secret, decrypted[i].Secret)
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir, "carol", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, v.Add("svc", "a", "pw", models.CipherBase64))

	require.NoError(t, v.Clear())
	assert.Zero(t, v.Count())

	reloaded, err := New(dir, "carol", zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, reloaded.Count())
}

func TestEntriesDecrypted_BadEntryGetsMarker(t *testing.T) {
	dir := t.TempDir()

	// Write an envelope by hand: one healthy Base64 entry and one whose
	// stored secret is not valid Base64.
	var w envelope.Writer
	w.WriteCount(2)
	for _, field := range []string{"good", "a", "cGFzcw==", "BASE64"} {
		require.NoError(t, w.WriteString(field))
	}
	for _, field := range []string{"broken", "b", "###", "BASE64"} {
		require.NoError(t, w.WriteString(field))
	}
	path := filepath.Join(dir, FileName("dave"))
	require.NoError(t, os.WriteFile(path, envelope.Seal(w.Bytes()), 0o600))

	v, err := New(dir, "dave", zap.NewNop())
	require.NoError(t, err)

	entries := v.EntriesDecrypted()
	require.Len(t, entries, 2)
	assert.Equal(t, "pass", entries[0].Secret)
	assert.Equal(t, DecryptFailedMarker, entries[1].Secret)
}

func TestLoad_LegacyFormatDefaultsToBase64(t *testing.T) {
	dir := t.TempDir()

	// Legacy shape: count, then (service, account, secret) triples with no
	// cipher tag.
	var w envelope.Writer
	w.WriteCount(2)
	for _, field := range []string{"Mail", "eve", "b2xkIHB3"} {
		require.NoError(t, w.WriteString(field))
	}
	for _, field := range []string{"Shop", "eve2", "b2xkZXIgcHc="} {
		require.NoError(t, w.WriteString(field))
	}
	path := filepath.Join(dir, FileName("eve"))
	require.NoError(t, os.WriteFile(path, envelope.Seal(w.Bytes()), 0o600))

	v, err := New(dir, "eve", zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 2, v.Count())

	for _, e := range v.Entries() {
		assert.Equal(t, models.CipherBase64, e.Cipher)
	}

	decrypted := v.EntriesDecrypted()
	assert.Equal(t, "old pw", decrypted[0].Secret)
	assert.Equal(t, "older pw", decrypted[1].Secret)
}

func TestLoad_CorruptBase64ClearsVault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName("mallory"))
	require.NoError(t, os.WriteFile(path, []byte("!!! not base64 !!!"), 0o600))

	v, err := New(dir, "mallory", zap.NewNop())
	assert.Error(t, err)
	assert.Zero(t, v.Count())
}

func TestLoad_UnknownCipherTagClearsVault(t *testing.T) {
	dir := t.TempDir()

	var w envelope.Writer
	w.WriteCount(1)
	for _, field := range []string{"svc", "acc", "secret", "ROT13"} {
		require.NoError(t, w.WriteString(field))
	}
	path := filepath.Join(dir, FileName("trent"))
	require.NoError(t, os.WriteFile(path, envelope.Seal(w.Bytes()), 0o600))

	v, err := New(dir, "trent", zap.NewNop())
	assert.Error(t, err)
	assert.Zero(t, v.Count())
}

func TestSave_FullRewrite(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir, "frank", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, v.Add("first", "a", "1", models.CipherPlain))
	sizeOne, err := os.ReadFile(v.Path())
	require.NoError(t, err)

	require.True(t, v.RemoveAt(0))
	sizeNone, err := os.ReadFile(v.Path())
	require.NoError(t, err)

	// The envelope shrinks back: the file holds exactly the current
	// entries, not an append log.
	assert.Less(t, len(sizeNone), len(sizeOne))

	reloaded, err := New(dir, "frank", zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, reloaded.Count())
}
