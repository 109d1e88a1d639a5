package vault

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	kerrors "github.com/dotsync/dotsync/internal/errors"
)

// testKey returns a random 32-byte key.
func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(t)

	plaintexts := [][]byte{
		nil,
		[]byte(""),
		[]byte("set nu\n"),
		[]byte("multi\nline\ncontent with unicode: kānuka ✓\n"),
		bytes.Repeat([]byte{0x00, 0xff}, 4096),
	}

	for _, plaintext := range plaintexts {
		blob, err := Encrypt(plaintext, key)
		require.NoError(t, err)

		got, err := Decrypt(blob, key)
		require.NoError(t, err)
		require.True(t, bytes.Equal(plaintext, got), "round trip altered content")
	}
}

func TestEncrypt_NonceUniqueness(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("identical input")

	a, err := Encrypt(plaintext, key)
	require.NoError(t, err)
	b, err := Encrypt(plaintext, key)
	require.NoError(t, err)

	require.NotEqual(t, a, b, "two encryptions of the same plaintext must differ")
	require.NotEqual(t, a[:NonceSize], b[:NonceSize], "nonces must differ")
}

func TestDecrypt_TamperDetection(t *testing.T) {
	key := testKey(t)
	blob, err := Encrypt([]byte("alias ll='ls -la'\n"), key)
	require.NoError(t, err)

	// Flipping any single byte of the blob must fail authentication,
	// never silently return altered plaintext.
	for i := range blob {
		tampered := append([]byte(nil), blob...)
		tampered[i] ^= 0x01

		_, err := Decrypt(tampered, key)
		require.ErrorIs(t, err, kerrors.ErrDecryptFailed, "byte %d flip went undetected", i)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	blob, err := Encrypt([]byte("secret"), testKey(t))
	require.NoError(t, err)

	_, err = Decrypt(blob, testKey(t))
	require.ErrorIs(t, err, kerrors.ErrDecryptFailed)
}

func TestDecrypt_BlobShorterThanNonce(t *testing.T) {
	key := testKey(t)

	for _, blob := range [][]byte{nil, {}, {0x01}, make([]byte, NonceSize-1)} {
		_, err := Decrypt(blob, key)
		require.ErrorIs(t, err, kerrors.ErrDecryptFailed)
	}
}

func TestEncrypt_RejectsBadKeyLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		_, err := Encrypt([]byte("x"), make([]byte, n))
		require.ErrorIs(t, err, kerrors.ErrInvalidKeyLength, "key length %d accepted", n)
	}
}

func TestEncryptFileDecryptFile_RoundTrip(t *testing.T) {
	tmp := t.TempDir()
	key := testKey(t)

	src := filepath.Join(tmp, ".netrc")
	enc := filepath.Join(tmp, "repo", ".netrc.enc")
	out := filepath.Join(tmp, "restored", ".netrc")

	content := "machine example.com login me password hunter2\n"
	require.NoError(t, os.WriteFile(src, []byte(content), 0600))

	require.NoError(t, EncryptFile(src, enc, key))

	// The blob on disk must not contain the plaintext.
	blob, err := os.ReadFile(enc)
	require.NoError(t, err)
	require.False(t, bytes.Contains(blob, []byte("hunter2")))

	require.NoError(t, DecryptFile(enc, out, key))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, content, string(got))
}

func TestDecryptToMemory(t *testing.T) {
	tmp := t.TempDir()
	key := testKey(t)

	src := filepath.Join(tmp, "plain")
	enc := filepath.Join(tmp, "plain.enc")
	require.NoError(t, os.WriteFile(src, []byte("in memory only"), 0600))
	require.NoError(t, EncryptFile(src, enc, key))

	got, err := DecryptToMemory(enc, key)
	require.NoError(t, err)
	require.Equal(t, "in memory only", string(got))
}
