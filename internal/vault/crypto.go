package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	kerrors "github.com/dotsync/dotsync/internal/errors"
)

const (
	// KeySize is the length of the symmetric encryption key (AES-256).
	KeySize = 32

	// NonceSize is the length of the GCM nonce prepended to every blob.
	NonceSize = 12
)

// Encrypt seals plaintext under key and returns nonce || ciphertext+tag.
// A fresh random nonce is generated on every call; nonce reuse under the
// same key breaks GCM confidentiality.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. A blob shorter than the nonce,
// a tampered byte anywhere in it, or the wrong key all return
// ErrDecryptFailed with no plaintext.
func Decrypt(blob, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(blob) < NonceSize {
		return nil, fmt.Errorf("blob is %d bytes, shorter than the %d-byte nonce: %w",
			len(blob), NonceSize, kerrors.ErrDecryptFailed)
	}

	plaintext, err := gcm.Open(nil, blob[:NonceSize], blob[NonceSize:], nil)
	if err != nil {
		return nil, kerrors.ErrDecryptFailed
	}
	return plaintext, nil
}

// EncryptFile reads src, encrypts it, and writes the blob to dst, creating
// parent directories as needed.
func EncryptFile(src, dst string, key []byte) error {
	plaintext, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	blob, err := Encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", src, err)
	}

	if err := ensureParent(dst); err != nil {
		return err
	}
	if err := os.WriteFile(dst, blob, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// DecryptFile reads the blob at src, decrypts it, and writes the plaintext
// to dst, creating parent directories as needed.
func DecryptFile(src, dst string, key []byte) error {
	plaintext, err := DecryptToMemory(src, key)
	if err != nil {
		return err
	}

	if err := ensureParent(dst); err != nil {
		return err
	}
	// #nosec G306 -- Decrypted dotfiles must stay editable by the user.
	if err := os.WriteFile(dst, plaintext, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// DecryptToMemory reads the blob at src and returns its plaintext without
// touching the filesystem. Comparison paths use this so partial plaintext
// is never written anywhere persistent.
func DecryptToMemory(src string, key []byte) ([]byte, error) {
	blob, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}

	plaintext, err := Decrypt(blob, key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s: %w", src, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("expected %d bytes, got %d: %w", KeySize, len(key), kerrors.ErrInvalidKeyLength)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory %s: %w", dir, err)
	}
	return nil
}
