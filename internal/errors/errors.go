package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Precondition errors indicate repository state the user must fix before retrying.
var (
	// ErrNotInitialized indicates the directory is not a dotsync repository.
	ErrNotInitialized = errors.New("repository has not been initialized")

	// ErrAlreadyInitialized indicates the directory is already a dotsync repository.
	ErrAlreadyInitialized = errors.New("repository has already been initialized")

	// ErrNotGitRepository indicates the repository directory is not a git working copy.
	ErrNotGitRepository = errors.New("not a git repository")

	// ErrNotInRebase indicates sync --continue was invoked outside a rebase.
	ErrNotInRebase = errors.New("repository is not in a rebase state")
)

// Cryptographic errors indicate failures during encryption, decryption, or key handling.
var (
	// ErrDecryptFailed indicates an encrypted blob failed authentication
	// (tampering, corruption, or the wrong key). Decryption never returns
	// partial plaintext alongside this error.
	ErrDecryptFailed = errors.New("failed to authenticate encrypted data")

	// ErrInvalidKeyLength indicates the encryption key is not exactly 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid encryption key length")

	// ErrInvalidMnemonic indicates the recovery phrase is not a valid 12-word mnemonic.
	ErrInvalidMnemonic = errors.New("invalid 12-word recovery phrase")

	// ErrKeyNotFound indicates the encryption key file is absent from the home directory.
	ErrKeyNotFound = errors.New("encryption key not found")

	// ErrEncryptionNotConfigured indicates encrypted entries exist but the
	// encryption ceremony has never been run for this repository.
	ErrEncryptionNotConfigured = errors.New("encryption has not been set up for this repository")

	// ErrCeremonyDeclined indicates the user declined to confirm the recovery
	// phrase during the key-generation ceremony.
	ErrCeremonyDeclined = errors.New("key generation cancelled")
)

// Registry errors indicate issues with the tracked-file registry.
var (
	// ErrDuplicatePath indicates an add would create a second entry for the same path.
	ErrDuplicatePath = errors.New("path is already tracked")

	// ErrPathNotFound indicates the path to add does not exist on the filesystem.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrEncryptDirectory indicates an add tried to encrypt a directory.
	// Encryption applies to individual files only.
	ErrEncryptDirectory = errors.New("directories cannot be encrypted")

	// ErrNotTracked indicates a remove target matched no registry entry.
	ErrNotTracked = errors.New("no tracked entry matches")

	// ErrStubNotFound indicates the named stub exists in neither the embedded
	// nor the custom database.
	ErrStubNotFound = errors.New("unknown application stub")
)

// Sync errors indicate failures inside the sync protocol.
var (
	// ErrUnresolvedMarkers indicates conflict markers remain in tracked files.
	ErrUnresolvedMarkers = errors.New("conflict markers remain in tracked files")
)

// ConflictError reports a rebase conflict that aborted a sync. It carries the
// conflicted paths so the CLI can print the exact remediation sequence. When
// this error is returned the home directory has not been modified.
type ConflictError struct {
	Files []string
}

func (e *ConflictError) Error() string {
	if len(e.Files) == 0 {
		return "rebase conflict"
	}
	return fmt.Sprintf("rebase conflict in %s", strings.Join(e.Files, ", "))
}

// AsConflict returns the ConflictError wrapped in err, if any.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
