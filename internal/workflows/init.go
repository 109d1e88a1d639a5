package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotsync/dotsync/internal/audit"
	"github.com/dotsync/dotsync/internal/configs"
	"github.com/dotsync/dotsync/internal/gitrepo"
	"github.com/dotsync/dotsync/internal/syncer"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// Path is the repository directory to initialize. Defaults to the
	// working directory.
	Path string

	// Tag namespaces this machine's custom stubs (e.g. "laptop").
	Tag string
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	RepoPath           string
	AlreadyInitialized bool
	GitInitialized     bool
	InitialCommit      bool
}

// Init sets up a dotfiles repository: an empty registry, the local overlay
// pointing at it, the custom stub directories, a git working copy, and a
// .gitignore keeping backups and conflict scratch files out of history.
// Initializing an already-initialized repository is a no-op, not an error.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	path := opts.Path
	if path == "" {
		path = "."
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating repository directory: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	settings, err := configs.NewSettings(abs)
	if err != nil {
		return nil, err
	}

	result := &InitResult{RepoPath: abs}
	if settings.IsInitialized() {
		result.AlreadyInitialized = true
		return result, nil
	}

	if err := configs.SaveRegistry(settings.RegistryPath(), &configs.Registry{}); err != nil {
		return nil, err
	}

	local, err := configs.LoadLocal(settings.LocalConfigPath())
	if err != nil {
		return nil, err
	}
	local.RepoPath = abs
	if opts.Tag != "" {
		local.Tag = opts.Tag
	}
	if err := configs.SaveLocal(settings.LocalConfigPath(), local); err != nil {
		return nil, err
	}

	customRoot := filepath.Join(abs, "custom_db")
	if opts.Tag != "" {
		customRoot = filepath.Join(customRoot, opts.Tag)
	}
	for _, sub := range []string{"applications", "default_configs"} {
		if err := os.MkdirAll(filepath.Join(customRoot, sub), 0o755); err != nil {
			return nil, err
		}
	}

	git := gitrepo.New(abs)
	if !git.IsRepo() {
		if err := git.Init(ctx); err != nil {
			return nil, err
		}
		result.GitInitialized = true
	}

	if err := writeGitignore(abs); err != nil {
		return nil, err
	}

	dirty, err := git.IsDirty(ctx)
	if err != nil {
		return nil, err
	}
	if dirty {
		if err := git.AddAll(ctx); err != nil {
			return nil, err
		}
		if err := git.Commit(ctx, "Initial commit: dotsync setup"); err != nil {
			return nil, err
		}
		result.InitialCommit = true
	}

	audit.Log(abs, audit.Entry{Operation: "init"})
	return result, nil
}

// writeGitignore appends the local-only directories to .gitignore,
// preserving whatever is already there.
func writeGitignore(repoPath string) error {
	path := filepath.Join(repoPath, ".gitignore")

	var content string
	if data, err := os.ReadFile(path); err == nil {
		content = string(data)
	}

	updated := false
	if !strings.Contains(content, syncer.BackupDirName+"/") {
		content += "\n# Local backups (for emergency recovery)\n" + syncer.BackupDirName + "/\n"
		updated = true
	}
	if !strings.Contains(content, syncer.ConflictsDirName+"/") {
		content += "\n# Plaintext conflict-resolution scratch files\n" + syncer.ConflictsDirName + "/\n"
		updated = true
	}

	if !updated {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
