package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotsync/dotsync/internal/configs"
	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/mirror"
	"github.com/dotsync/dotsync/internal/vault"
)

// Continue resumes a sync that stopped on a rebase conflict. It only runs
// while the repository is mid-rebase. The first pass over a conflict
// materializes plaintext merge views for encrypted members and returns a
// *errors.ConflictError listing the conflicted files. On re-entry the
// views already exist and are left untouched; once no file carries
// conflict markers any more, Continue re-encrypts the views back into the
// repository, stages everything (which also clears the unmerged index
// entries, so the user never runs git add by hand), continues the rebase,
// and removes the conflicts directory. The directory is preserved when
// rebase-continue itself fails, so a further attempt keeps the partially
// resolved content.
func (e *Engine) Continue(ctx context.Context, entries []configs.TrackedEntry) error {
	if !e.Git.IsRepo() {
		return fmt.Errorf("%w: %s", kerrors.ErrNotGitRepository, e.RepoPath)
	}
	if !e.Git.IsInRebase() {
		return kerrors.ErrNotInRebase
	}

	unresolved, err := e.Git.HasConflicts(ctx)
	if err != nil {
		return err
	}
	var conflicted []string
	if unresolved {
		conflicted, err = e.Git.ConflictedFiles(ctx)
		if err != nil {
			return err
		}
		materialized := false
		for _, rel := range conflicted {
			if !strings.HasSuffix(rel, EncryptedExt) {
				continue
			}
			if e.Key == nil {
				return &kerrors.ConflictError{Files: conflicted}
			}
			if mirror.Exists(filepath.Join(e.conflictsDir(), PlainMemberName(rel))) {
				continue
			}
			if err := e.materializeConflictView(ctx, rel); err != nil {
				return fmt.Errorf("preparing merge view for %s: %w", rel, err)
			}
			materialized = true
		}
		if materialized {
			return &kerrors.ConflictError{Files: conflicted}
		}
	}

	// Refuse to continue while any tracked or conflicted file still
	// carries conflict markers. Encrypted members are checked via their
	// plaintext view, never the blob.
	marked, err := e.filesWithConflictMarkers(entries, conflicted)
	if err != nil {
		return err
	}
	if len(marked) > 0 {
		return fmt.Errorf("%w: %s", kerrors.ErrUnresolvedMarkers, strings.Join(marked, ", "))
	}

	if err := e.reencryptResolvedViews(entries); err != nil {
		return err
	}

	if err := e.Git.AddAll(ctx); err != nil {
		return err
	}
	if err := e.Git.RebaseContinue(ctx); err != nil {
		return err
	}

	os.RemoveAll(e.conflictsDir())
	return nil
}

// materializeConflictView writes a plaintext merge view of an encrypted
// conflicted member into the conflicts directory. Callers skip members
// whose view already exists: the user may have resolved it, and a re-run
// must not clobber that work. When both index stages are available it
// decrypts ours and theirs separately and frames them with conventional
// conflict markers; otherwise it decrypts the working copy as-is.
func (e *Engine) materializeConflictView(ctx context.Context, rel string) error {
	viewPath := filepath.Join(e.conflictsDir(), PlainMemberName(rel))
	if err := os.MkdirAll(filepath.Dir(viewPath), 0o700); err != nil {
		return err
	}

	ours, oursErr := e.Git.StageVersion(ctx, rel, 2)
	theirs, theirsErr := e.Git.StageVersion(ctx, rel, 3)

	if oursErr == nil && theirsErr == nil {
		oursPlain, err := vault.Decrypt(ours, e.Key)
		if err != nil {
			return err
		}
		theirsPlain, err := vault.Decrypt(theirs, e.Key)
		if err != nil {
			return err
		}
		view := fmt.Sprintf("<<<<<<< HEAD (ours)\n%s=======\n%s>>>>>>> incoming (theirs)\n",
			withTrailingNewline(oursPlain), withTrailingNewline(theirsPlain))
		return os.WriteFile(viewPath, []byte(view), 0o600)
	}

	plaintext, err := vault.DecryptToMemory(filepath.Join(e.RepoPath, rel), e.Key)
	if err != nil {
		return err
	}
	return os.WriteFile(viewPath, plaintext, 0o600)
}

func (e *Engine) filesWithConflictMarkers(entries []configs.TrackedEntry, conflicted []string) ([]string, error) {
	seen := make(map[string]bool)
	var marked []string

	check := func(display, path string) error {
		if seen[path] || !mirror.Exists(path) || mirror.IsDir(path) {
			return nil
		}
		seen[path] = true
		has, err := hasConflictMarkers(path)
		if err != nil {
			return err
		}
		if has {
			marked = append(marked, display)
		}
		return nil
	}

	for _, entry := range entries {
		var path string
		if entry.Encrypted {
			path = e.conflictViewPath(entry)
		} else {
			path = e.repoPath(entry)
		}
		if err := check(entry.Path, path); err != nil {
			return nil, err
		}
	}

	// Conflicted files outside the registry (the registry itself, custom
	// stubs) are plain text and checked in place.
	for _, rel := range conflicted {
		if strings.HasSuffix(rel, EncryptedExt) {
			continue
		}
		if err := check(rel, filepath.Join(e.RepoPath, rel)); err != nil {
			return nil, err
		}
	}

	return marked, nil
}

func hasConflictMarkers(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)
	return strings.Contains(content, "<<<<<<<") || strings.Contains(content, ">>>>>>>"), nil
}

// reencryptResolvedViews encrypts each resolved plaintext view back to its
// blob path in the repository.
func (e *Engine) reencryptResolvedViews(entries []configs.TrackedEntry) error {
	for _, entry := range entries {
		if !entry.Encrypted {
			continue
		}
		view := e.conflictViewPath(entry)
		if !mirror.Exists(view) {
			continue
		}
		if e.Key == nil {
			return fmt.Errorf("%w: %s", kerrors.ErrEncryptionNotConfigured, entry.Path)
		}
		if err := vault.EncryptFile(view, e.encryptedPath(entry), e.Key); err != nil {
			return err
		}
	}
	return nil
}

func withTrailingNewline(b []byte) string {
	s := string(b)
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}
