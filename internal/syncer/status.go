package syncer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dotsync/dotsync/internal/configs"
	"github.com/dotsync/dotsync/internal/mirror"
	"github.com/dotsync/dotsync/internal/vault"
)

// FileState is the per-entry sync state reported by Status.
type FileState int

const (
	// InSync means home and repository content are byte-identical, after
	// decrypting the repository side for encrypted entries.
	InSync FileState = iota
	// OutOfSync means both sides exist but differ.
	OutOfSync
	// MissingInRepo means the home file exists but has no repository copy.
	MissingInRepo
	// MissingInHome means the home-side path does not exist. Tracked
	// entries absent from both sides also report MissingInHome.
	MissingInHome
	// CannotVerify means the entry is encrypted and the key is
	// unavailable or the blob fails to decrypt, so the comparison cannot
	// be made. Reported instead of failing the whole status run.
	CannotVerify
)

func (s FileState) String() string {
	switch s {
	case InSync:
		return "in sync"
	case OutOfSync:
		return "out of sync"
	case MissingInRepo:
		return "missing in repo"
	case MissingInHome:
		return "missing in home"
	case CannotVerify:
		return "cannot verify"
	default:
		return fmt.Sprintf("FileState(%d)", int(s))
	}
}

// StatusEntry pairs a tracked entry with its computed state.
type StatusEntry struct {
	Entry configs.TrackedEntry
	State FileState
}

// Status computes the sync state of every tracked entry. Encrypted
// comparisons decrypt in memory only; nothing is written anywhere.
func (e *Engine) Status(entries []configs.TrackedEntry) []StatusEntry {
	result := make([]StatusEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, StatusEntry{Entry: entry, State: e.entryState(entry)})
	}
	return result
}

func (e *Engine) entryState(entry configs.TrackedEntry) FileState {
	home := e.homePath(entry)
	homeExists := mirror.Exists(home)

	if entry.Encrypted {
		encPath := e.encryptedPath(entry)
		if !mirror.Exists(encPath) {
			if homeExists {
				return MissingInRepo
			}
			return MissingInHome
		}
		if !homeExists {
			return MissingInHome
		}
		if e.Key == nil {
			return CannotVerify
		}
		stored, err := vault.DecryptToMemory(encPath, e.Key)
		if err != nil {
			return CannotVerify
		}
		current, err := os.ReadFile(home)
		if err != nil {
			return CannotVerify
		}
		if bytes.Equal(stored, current) {
			return InSync
		}
		return OutOfSync
	}

	repoFile := e.repoPath(entry)
	repoExists := mirror.Exists(repoFile)
	switch {
	case !homeExists:
		return MissingInHome
	case !repoExists:
		return MissingInRepo
	}
	equal, err := mirror.ContentEqual(home, repoFile)
	if err != nil {
		return CannotVerify
	}
	if equal {
		return InSync
	}
	return OutOfSync
}
