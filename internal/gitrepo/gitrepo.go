package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo runs git commands inside a single working tree.
type Repo struct {
	Path string
}

func New(path string) *Repo {
	return &Repo{Path: path}
}

// IsRepo reports whether the working tree has been initialized as a git
// repository. It checks for the .git directory rather than shelling out.
func (r *Repo) IsRepo() bool {
	info, err := os.Stat(filepath.Join(r.Path, ".git"))
	return err == nil && info.IsDir()
}

func (r *Repo) Init(ctx context.Context) error {
	return r.run(ctx, "init")
}

// IsDirty reports whether the working tree has uncommitted changes,
// including untracked files.
func (r *Repo) IsDirty(ctx context.Context) (bool, error) {
	out, err := r.output(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

func (r *Repo) AddAll(ctx context.Context) error {
	return r.run(ctx, "add", "-A")
}

func (r *Repo) Commit(ctx context.Context, message string) error {
	return r.run(ctx, "commit", "-m", message)
}

// HasRemote reports whether any remote is configured.
func (r *Repo) HasRemote(ctx context.Context) (bool, error) {
	out, err := r.output(ctx, "remote")
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

// CurrentBranch returns the checked-out branch name. It falls back to
// symbolic-ref for older git versions that lack --show-current.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.output(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(string(out))
	if branch != "" {
		return branch, nil
	}

	out, err = r.output(ctx, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("determining current branch (detached HEAD?): %w", err)
	}
	branch = strings.TrimSpace(string(out))
	if branch == "" {
		return "", fmt.Errorf("unable to determine current branch")
	}
	return branch, nil
}

// RemoteHasCommits reports whether the remote already has the given branch.
// An empty ls-remote listing means the remote is brand new.
func (r *Repo) RemoteHasCommits(ctx context.Context, remote, branch string) (bool, error) {
	out, err := r.output(ctx, "ls-remote", "--heads", remote, branch)
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

// PullRebase pulls the remote branch and replays local commits on top. A
// non-zero exit usually means the rebase stopped on conflicts; the caller
// decides whether that is fatal.
func (r *Repo) PullRebase(ctx context.Context, remote, branch string) error {
	cmd := exec.CommandContext(ctx, "git", "pull", "--rebase", remote, branch)
	cmd.Dir = r.Path
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git pull --rebase %s %s: %s", remote, branch, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (r *Repo) Push(ctx context.Context, remote, branch string) error {
	return r.run(ctx, "push", remote, branch)
}

func (r *Repo) PushSetUpstream(ctx context.Context, remote, branch string) error {
	return r.run(ctx, "push", "-u", remote, branch)
}

// IsInRebase reports whether a rebase is in progress by checking the
// rebase state directories inside .git.
func (r *Repo) IsInRebase() bool {
	for _, dir := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(r.Path, ".git", dir)); err == nil {
			return true
		}
	}
	return false
}

func (r *Repo) HasConflicts(ctx context.Context) (bool, error) {
	files, err := r.ConflictedFiles(ctx)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// ConflictedFiles lists paths with unresolved merge conflicts, relative to
// the repository root.
func (r *Repo) ConflictedFiles(ctx context.Context) ([]string, error) {
	out, err := r.output(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func (r *Repo) RebaseContinue(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "git", "rebase", "--continue")
	cmd.Dir = r.Path
	// rebase --continue opens an editor for the commit message unless told
	// otherwise; reuse the message from the commit being replayed.
	cmd.Env = append(os.Environ(), "GIT_EDITOR=true")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git rebase --continue: %s", strings.TrimSpace(stderr.String()))
	}
	return nil
}

// StageVersion returns the contents of path at the given index stage during
// a conflicted merge: stage 2 is ours, stage 3 is theirs.
func (r *Repo) StageVersion(ctx context.Context, path string, stage int) ([]byte, error) {
	return r.output(ctx, "show", fmt.Sprintf(":%d:%s", stage, path))
}

func (r *Repo) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Path
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return nil
}

func (r *Repo) output(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Path
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.Bytes(), nil
}
