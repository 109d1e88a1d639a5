package vault

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/dotsync/dotsync/internal/errors"
)

// MarkerName is the sentinel file committed at the repository root to
// signal that the repository contains encrypted members. It carries no
// secret material.
const MarkerName = ".encryption-enabled"

const markerNotice = `This repository contains encrypted files.

The files ending in .enc were encrypted by dotsync with a key derived from
a 12-word recovery phrase. The key itself is never stored in this
repository. To decrypt on a new machine, run a sync and enter the recovery
phrase when prompted.
`

// SaveKey persists the encryption key base64-encoded at path, creating
// parent directories as needed. The path must live under the user's home
// directory; it is never a repository path.
func SaveKey(path string, key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("expected %d bytes, got %d: %w", KeySize, len(key), kerrors.ErrInvalidKeyLength)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(path, []byte(encoded+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	return nil
}

// LoadKey reads and decodes the key file at path. A key file that decodes
// to anything other than exactly 32 bytes is a fatal format error.
func LoadKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, kerrors.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("key file %s is not valid base64: %w", path, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("key file %s decodes to %d bytes, expected %d: %w",
			path, len(key), KeySize, kerrors.ErrInvalidKeyLength)
	}
	return key, nil
}

// HasKey reports whether a key file exists at path.
func HasKey(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteMarker creates the encryption marker at the repository root. The
// marker's presence alone is the signal; its content is a human-readable
// notice.
func WriteMarker(repoPath string) error {
	markerPath := filepath.Join(repoPath, MarkerName)
	// #nosec G306 -- The marker is public notice text, not secret material.
	if err := os.WriteFile(markerPath, []byte(markerNotice), 0644); err != nil {
		return fmt.Errorf("failed to write encryption marker: %w", err)
	}
	return nil
}

// HasMarker reports whether the repository carries the encryption marker.
func HasMarker(repoPath string) bool {
	info, err := os.Stat(filepath.Join(repoPath, MarkerName))
	return err == nil && !info.IsDir()
}

