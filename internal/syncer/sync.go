package syncer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dotsync/dotsync/internal/configs"
	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/mirror"
	"github.com/dotsync/dotsync/internal/vault"
)

// Outcome reports what a sync run actually did, for display by the caller.
type Outcome struct {
	Imported    int
	Committed   bool
	Pulled      bool
	FirstPush   bool
	BackedUp    bool
	Exported    int
	Pushed      bool
	RemoteFound bool
}

// Sync runs the six-step protocol over the given tracked entries:
// import, commit, pull-rebase, backup, export, push. Each step is gated
// on the previous one succeeding. A rebase conflict aborts before the
// backup and export steps so the home directory is left untouched; the
// returned error unwraps to *errors.ConflictError in that case.
func (e *Engine) Sync(ctx context.Context, entries []configs.TrackedEntry) (*Outcome, error) {
	if !e.Git.IsRepo() {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotGitRepository, e.RepoPath)
	}

	out := &Outcome{}

	// Step 1: import (home -> repo).
	imported, err := e.importStep(entries)
	if err != nil {
		return nil, fmt.Errorf("import step: %w", err)
	}
	out.Imported = imported
	e.Logger.Infof("imported %d changed file(s)", imported)

	// Step 2: stage and commit whatever the import changed.
	dirty, err := e.Git.IsDirty(ctx)
	if err != nil {
		return nil, fmt.Errorf("commit step: %w", err)
	}
	if dirty {
		if err := e.Git.AddAll(ctx); err != nil {
			return nil, fmt.Errorf("commit step: %w", err)
		}
		msg := fmt.Sprintf("dotsync: %s", time.Now().Format("2006-01-02 15:04:05"))
		if err := e.Git.Commit(ctx, msg); err != nil {
			return nil, fmt.Errorf("commit step: %w", err)
		}
		out.Committed = true
		e.Logger.Infof("committed local changes")
	}

	// Step 3: pull-rebase. A conflict here is the one abort path that must
	// leave the home directory byte-for-byte untouched.
	hasRemote, err := e.Git.HasRemote(ctx)
	if err != nil {
		return nil, fmt.Errorf("pull step: %w", err)
	}
	out.RemoteFound = hasRemote

	var branch string
	remoteEmpty := false
	if hasRemote {
		branch, err = e.Git.CurrentBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf("pull step: %w", err)
		}
		hasCommits, err := e.Git.RemoteHasCommits(ctx, remoteName, branch)
		if err != nil {
			return nil, fmt.Errorf("pull step: %w", err)
		}
		remoteEmpty = !hasCommits

		if !remoteEmpty {
			if err := e.Git.PullRebase(ctx, remoteName, branch); err != nil {
				if e.Git.IsInRebase() {
					files, _ := e.Git.ConflictedFiles(ctx)
					return nil, &kerrors.ConflictError{Files: files}
				}
				return nil, fmt.Errorf("pull step: %w", err)
			}
			out.Pulled = true
			e.Logger.Infof("rebased onto %s/%s", remoteName, branch)
		} else {
			e.Logger.Infof("remote %s has no commits yet, skipping pull", remoteName)
		}
	} else {
		e.Logger.Infof("no remote configured, skipping pull")
	}

	// Step 4: plaintext backup of current home-side content, so recovery
	// never depends on the key or mnemonic.
	backedUp, err := e.backupStep(entries)
	if err != nil {
		return nil, fmt.Errorf("backup step: %w", err)
	}
	out.BackedUp = backedUp

	// Step 5: export (repo -> home). Only reached with a clean, merged repo.
	exported, err := e.exportStep(entries)
	if err != nil {
		return nil, fmt.Errorf("export step: %w", err)
	}
	out.Exported = exported
	e.Logger.Infof("exported %d changed file(s)", exported)

	// Step 6: push.
	if hasRemote {
		if remoteEmpty {
			if err := e.Git.PushSetUpstream(ctx, remoteName, branch); err != nil {
				return out, fmt.Errorf("push step: %w", err)
			}
			out.FirstPush = true
		} else {
			if err := e.Git.Push(ctx, remoteName, branch); err != nil {
				return out, fmt.Errorf("push step: %w", err)
			}
		}
		out.Pushed = true
	}

	return out, nil
}

// importStep copies changed home-side files into the repository,
// encrypting entries marked encrypted. Unchanged files are skipped so
// repeated syncs produce no spurious commits; for encrypted entries the
// comparison decrypts the stored blob and compares plaintexts, since a
// fresh nonce makes ciphertext comparison useless.
func (e *Engine) importStep(entries []configs.TrackedEntry) (int, error) {
	imported := 0
	for _, entry := range entries {
		home := e.homePath(entry)
		if !mirror.Exists(home) || mirror.IsDir(home) {
			continue
		}

		if entry.Encrypted {
			if e.Key == nil {
				return imported, fmt.Errorf("%w: %s", kerrors.ErrEncryptionNotConfigured, entry.Path)
			}
			encPath := e.encryptedPath(entry)
			changed := true
			if mirror.Exists(encPath) {
				if stored, err := vault.DecryptToMemory(encPath, e.Key); err == nil {
					current, err := os.ReadFile(home)
					if err != nil {
						return imported, fmt.Errorf("reading %s: %w", home, err)
					}
					changed = !bytes.Equal(stored, current)
				}
				// An undecryptable blob falls through as changed and is
				// replaced by a fresh encryption of the home content.
			}
			if changed {
				if err := vault.EncryptFile(home, encPath, e.Key); err != nil {
					return imported, err
				}
				imported++
			}
			continue
		}

		repoFile := e.repoPath(entry)
		equal := false
		if mirror.Exists(repoFile) {
			var err error
			equal, err = mirror.ContentEqual(home, repoFile)
			if err != nil {
				return imported, err
			}
		}
		if !equal {
			if err := mirror.SyncFile(home, repoFile); err != nil {
				return imported, err
			}
			imported++
		}
	}
	return imported, nil
}

// Export runs only the repo-to-home step, for the export-only local sync.
// Callers are responsible for refusing mid-rebase repositories first.
func (e *Engine) Export(entries []configs.TrackedEntry) (int, error) {
	return e.exportStep(entries)
}

// exportStep writes repository content into the home directory, decrypting
// encrypted members. Files already identical are left alone so timestamps
// are not clobbered.
func (e *Engine) exportStep(entries []configs.TrackedEntry) (int, error) {
	exported := 0
	for _, entry := range entries {
		home := e.homePath(entry)

		if entry.Encrypted {
			if e.Key == nil {
				return exported, fmt.Errorf("%w: %s", kerrors.ErrEncryptionNotConfigured, entry.Path)
			}
			encPath := e.encryptedPath(entry)
			if !mirror.Exists(encPath) {
				continue
			}
			plaintext, err := vault.DecryptToMemory(encPath, e.Key)
			if err != nil {
				return exported, fmt.Errorf("decrypting %s: %w", encPath, err)
			}
			if mirror.Exists(home) {
				current, err := os.ReadFile(home)
				if err != nil {
					return exported, fmt.Errorf("reading %s: %w", home, err)
				}
				if bytes.Equal(plaintext, current) {
					continue
				}
			}
			if err := writeFileWithParents(home, plaintext, 0o600); err != nil {
				return exported, err
			}
			exported++
			continue
		}

		repoFile := e.repoPath(entry)
		if !mirror.Exists(repoFile) || mirror.IsDir(repoFile) {
			continue
		}
		if mirror.Exists(home) {
			equal, err := mirror.ContentEqual(repoFile, home)
			if err != nil {
				return exported, err
			}
			if equal {
				continue
			}
		}
		if err := mirror.SyncFile(repoFile, home); err != nil {
			return exported, err
		}
		exported++
	}
	return exported, nil
}

func writeFileWithParents(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating parent of %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
