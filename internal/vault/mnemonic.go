package vault

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"

	kerrors "github.com/dotsync/dotsync/internal/errors"
)

const (
	// mnemonicEntropyBits yields a 12-word phrase.
	mnemonicEntropyBits = 128

	// mnemonicWords is the only accepted phrase length.
	mnemonicWords = 12

	// kdfIterations is fixed; changing it changes every derived key.
	kdfIterations = 100000

	// kdfInfo is the fixed application-specific KDF salt.
	kdfInfo = "dotsync-file-encryption-v1"
)

// GenerateMnemonic sources 128 bits of cryptographically secure randomness
// and encodes them as a 12-word BIP-39 phrase. The phrase is displayed to
// the user exactly once; dotsync retains only the derived key.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to encode mnemonic: %w", err)
	}
	return mnemonic, nil
}

// DeriveKey turns a 12-word mnemonic into the 32-byte encryption key.
// The derivation is pure: the same phrase always yields the same key,
// byte for byte. Returns ErrInvalidMnemonic when the phrase is not a
// well-formed 12-word BIP-39 mnemonic.
func DeriveKey(mnemonic string) ([]byte, error) {
	normalized := strings.Join(strings.Fields(mnemonic), " ")

	if len(strings.Fields(normalized)) != mnemonicWords {
		return nil, fmt.Errorf("expected %d words: %w", mnemonicWords, kerrors.ErrInvalidMnemonic)
	}

	seed, err := bip39.EntropyFromMnemonic(normalized)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, kerrors.ErrInvalidMnemonic)
	}

	return pbkdf2.Key(seed, []byte(kdfInfo), kdfIterations, KeySize, sha256.New), nil
}
