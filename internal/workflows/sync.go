package workflows

import (
	"context"
	"path/filepath"

	"github.com/dotsync/dotsync/internal/audit"
	"github.com/dotsync/dotsync/internal/configs"
	"github.com/dotsync/dotsync/internal/gitrepo"
	logger "github.com/dotsync/dotsync/internal/logging"
	"github.com/dotsync/dotsync/internal/syncer"
	"github.com/dotsync/dotsync/internal/vault"
)

// SyncOptions configures the sync workflow.
type SyncOptions struct {
	// Dir, when set, becomes the repository path and is persisted to the
	// local overlay so later runs find it from anywhere.
	Dir string
}

// SyncResult contains the outcome of a sync operation.
type SyncResult struct {
	RepoPath string
	Outcome  *syncer.Outcome

	// TrackedCount is how many entries the registry holds. Zero means the
	// sync was a no-op.
	TrackedCount int
}

// Sync runs the six-step bidirectional sync protocol. A rebase conflict
// surfaces as an error unwrapping to *errors.ConflictError with the home
// directory untouched; the CLI prints the remediation sequence.
func Sync(ctx context.Context, opts SyncOptions, p vault.Prompter, log logger.Logger) (*SyncResult, error) {
	repoPath := ""
	if opts.Dir != "" {
		abs, err := filepath.Abs(opts.Dir)
		if err != nil {
			return nil, err
		}
		repoPath = abs
	}

	settings, registry, err := loadRepo(repoPath)
	if err != nil {
		return nil, err
	}

	// Persist --dir so future runs resolve the repository from anywhere.
	if repoPath != "" {
		if err := configs.SaveRepoPath(settings.LocalConfigPath(), repoPath); err != nil {
			return nil, err
		}
	}

	result := &SyncResult{RepoPath: settings.RepoPath, TrackedCount: len(registry.TrackedFiles)}
	if result.TrackedCount == 0 {
		return result, nil
	}

	key, err := resolveKey(settings, registry, p)
	if err != nil {
		return nil, err
	}

	engine := syncer.NewEngine(settings.RepoPath, settings.HomeDir, gitrepo.New(settings.RepoPath), key, log)
	outcome, err := engine.Sync(ctx, registry.TrackedFiles)
	if err != nil {
		audit.Log(settings.RepoPath, audit.Entry{Operation: "sync", Error: err.Error()})
		return nil, err
	}
	result.Outcome = outcome

	audit.Log(settings.RepoPath, audit.Entry{
		Operation:     "sync",
		ImportedCount: outcome.Imported,
		ExportedCount: outcome.Exported,
	})
	return result, nil
}

// Continue resumes a sync interrupted by a rebase conflict.
func Continue(ctx context.Context, p vault.Prompter, log logger.Logger) (*SyncResult, error) {
	settings, registry, err := loadRepo("")
	if err != nil {
		return nil, err
	}

	key, err := resolveKey(settings, registry, p)
	if err != nil {
		return nil, err
	}

	engine := syncer.NewEngine(settings.RepoPath, settings.HomeDir, gitrepo.New(settings.RepoPath), key, log)
	if err := engine.Continue(ctx, registry.TrackedFiles); err != nil {
		return nil, err
	}

	audit.Log(settings.RepoPath, audit.Entry{Operation: "sync-continue"})
	return &SyncResult{RepoPath: settings.RepoPath, TrackedCount: len(registry.TrackedFiles)}, nil
}
