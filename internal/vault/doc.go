// Package vault provides the encryption engine and key custody for dotsync.
//
// # Encryption Architecture
//
// Files marked as encrypted are stored in the repository as AES-256-GCM
// blobs. Each blob is a fresh random 12-byte nonce followed by the
// ciphertext with its authentication tag:
//
//	nonce(12) || ciphertext+tag
//
// Encryption is non-deterministic (a fresh nonce per call), so encrypting
// the same file twice produces different blobs. Decryption fails closed:
// a truncated blob, a tampered byte, or the wrong key all yield
// ErrDecryptFailed, never partial plaintext.
//
// # Key Custody
//
// The 32-byte key lives base64-encoded in a file under the user's home
// directory and is never written inside the synchronized repository. The
// repository instead carries a marker file whose presence signals "this
// repository contains encrypted members"; the marker holds no secret
// material.
//
// The key is deterministically re-derivable from a 12-word BIP-39 mnemonic
// via PBKDF2-HMAC-SHA256 (100,000 iterations, fixed application info
// string). The mnemonic is shown to the user exactly once during the
// key-generation ceremony; dotsync keeps no copy of it.
//
// # Custody States
//
// Three states, derived from marker and key presence:
//
//   - Unconfigured: no marker, no key; encryption never set up
//   - Configured: marker and key both present on this machine
//   - NeedsRecovery: marker present, key absent (a fresh clone on a new
//     machine); the user re-enters the mnemonic to restore the key
package vault
