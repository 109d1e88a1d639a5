package vault

import (
	"fmt"

	kerrors "github.com/dotsync/dotsync/internal/errors"
)

// State describes where this machine stands in the key custody lifecycle.
type State int

const (
	// Unconfigured: no marker in the repo, no key in home. Encryption has
	// never been set up.
	Unconfigured State = iota

	// Configured: marker and key both present on this machine.
	Configured

	// NeedsRecovery: the repo carries the marker but the key is absent,
	// e.g. a fresh clone on a new machine.
	NeedsRecovery

	// keyOnly: a key exists but the repo has no marker. Treated like
	// Configured for key loading; the marker is written on next encrypted
	// add so older repositories heal themselves.
	keyOnly
)

// Prompter is the interactive surface the custody manager needs. The cmd
// layer implements it against the terminal; tests script it.
type Prompter interface {
	// Confirm asks a yes/no question and reports the answer.
	Confirm(prompt string) (bool, error)

	// ReadPhrase reads a recovery phrase from the user.
	ReadPhrase(prompt string) (string, error)

	// ShowMnemonic displays a freshly generated phrase. It is called at
	// most once per ceremony; the phrase is never shown again.
	ShowMnemonic(mnemonic string)
}

// Custody decides where the encryption key lives and drives the one-time
// key-generation ceremony. KeyPath is always under the home directory and
// RepoPath always names the repository root; the two are never swapped,
// regardless of configuration overrides.
type Custody struct {
	KeyPath  string
	RepoPath string
}

// State derives the custody state from marker and key presence.
func (c Custody) State() State {
	marker := HasMarker(c.RepoPath)
	key := HasKey(c.KeyPath)

	switch {
	case marker && key:
		return Configured
	case marker && !key:
		return NeedsRecovery
	case !marker && key:
		return keyOnly
	default:
		return Unconfigured
	}
}

// EnsureKey returns the encryption key, running the ceremony or recovery
// flow as the custody state requires.
func (c Custody) EnsureKey(p Prompter) ([]byte, error) {
	switch c.State() {
	case Configured, keyOnly:
		return LoadKey(c.KeyPath)
	case NeedsRecovery:
		return c.Recover(p)
	default:
		return nil, kerrors.ErrEncryptionNotConfigured
	}
}

// Ceremony performs the one-time key generation: generate a mnemonic, show
// it once, and require explicit confirmation that the user saved it before
// anything is persisted. A declined confirmation aborts with no partial
// state: no key file, no marker.
func (c Custody) Ceremony(p Prompter) ([]byte, error) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return nil, err
	}

	p.ShowMnemonic(mnemonic)

	saved, err := p.Confirm("Have you written down your 12-word recovery phrase?")
	if err != nil {
		return nil, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !saved {
		return nil, kerrors.ErrCeremonyDeclined
	}

	key, err := DeriveKey(mnemonic)
	if err != nil {
		return nil, err
	}

	// Key first, marker second: a marker without a key would strand the
	// repository in NeedsRecovery on this machine.
	if err := SaveKey(c.KeyPath, key); err != nil {
		return nil, err
	}
	if err := WriteMarker(c.RepoPath); err != nil {
		return nil, err
	}
	return key, nil
}

// Recover restores the key on a new machine from the 12-word phrase. The
// marker is already present and is not rewritten.
func (c Custody) Recover(p Prompter) ([]byte, error) {
	phrase, err := p.ReadPhrase("Enter your 12-word recovery phrase: ")
	if err != nil {
		return nil, fmt.Errorf("failed to read recovery phrase: %w", err)
	}

	key, err := DeriveKey(phrase)
	if err != nil {
		return nil, err
	}

	if err := SaveKey(c.KeyPath, key); err != nil {
		return nil, err
	}
	return key, nil
}
