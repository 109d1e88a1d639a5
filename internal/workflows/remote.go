package workflows

import (
	"context"
	"fmt"

	"github.com/dotsync/dotsync/internal/audit"
	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/gitrepo"
)

// RemoteResult contains the outcome of a standalone pull or push.
type RemoteResult struct {
	RepoPath string
	Branch   string

	// RemoteConfigured is false when no remote exists; the operation is a
	// no-op rather than an error.
	RemoteConfigured bool
}

// Pull rebases the repository onto its remote without touching the home
// directory. It refuses to run mid-rebase.
func Pull(ctx context.Context) (*RemoteResult, error) {
	settings, _, err := loadRepo("")
	if err != nil {
		return nil, err
	}

	git := gitrepo.New(settings.RepoPath)
	result := &RemoteResult{RepoPath: settings.RepoPath}
	if !git.IsRepo() {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotGitRepository, settings.RepoPath)
	}
	if git.IsInRebase() {
		return nil, fmt.Errorf("rebase in progress, resolve it first (dotsync sync --continue)")
	}

	hasRemote, err := git.HasRemote(ctx)
	if err != nil {
		return nil, err
	}
	if !hasRemote {
		return result, nil
	}
	result.RemoteConfigured = true

	branch, err := git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	result.Branch = branch

	if err := git.PullRebase(ctx, "origin", branch); err != nil {
		if git.IsInRebase() {
			files, _ := git.ConflictedFiles(ctx)
			return nil, &kerrors.ConflictError{Files: files}
		}
		return nil, err
	}

	audit.Log(settings.RepoPath, audit.Entry{Operation: "pull"})
	return result, nil
}

// Push sends local commits to the remote. It refuses to run mid-rebase.
func Push(ctx context.Context) (*RemoteResult, error) {
	settings, _, err := loadRepo("")
	if err != nil {
		return nil, err
	}

	git := gitrepo.New(settings.RepoPath)
	result := &RemoteResult{RepoPath: settings.RepoPath}
	if !git.IsRepo() {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotGitRepository, settings.RepoPath)
	}
	if git.IsInRebase() {
		return nil, fmt.Errorf("rebase in progress, resolve it first (dotsync sync --continue)")
	}

	hasRemote, err := git.HasRemote(ctx)
	if err != nil {
		return nil, err
	}
	if !hasRemote {
		return result, nil
	}
	result.RemoteConfigured = true

	branch, err := git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	result.Branch = branch

	if err := git.Push(ctx, "origin", branch); err != nil {
		return nil, err
	}

	audit.Log(settings.RepoPath, audit.Entry{Operation: "push"})
	return result, nil
}
