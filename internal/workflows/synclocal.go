package workflows

import (
	"context"
	"fmt"

	"github.com/dotsync/dotsync/internal/audit"
	"github.com/dotsync/dotsync/internal/gitrepo"
	logger "github.com/dotsync/dotsync/internal/logging"
	"github.com/dotsync/dotsync/internal/syncer"
	"github.com/dotsync/dotsync/internal/vault"
)

// SyncLocalResult contains the outcome of an export-only sync.
type SyncLocalResult struct {
	RepoPath     string
	Exported     int
	TrackedCount int
}

// SyncLocal exports repository content into the home directory without
// importing, committing, or touching the remote. Useful after a manual
// git pull or repository edit. It refuses to run mid-rebase: exporting
// half-merged content would spread conflict markers into the home
// directory.
func SyncLocal(ctx context.Context, p vault.Prompter, log logger.Logger) (*SyncLocalResult, error) {
	settings, registry, err := loadRepo("")
	if err != nil {
		return nil, err
	}

	git := gitrepo.New(settings.RepoPath)
	if git.IsInRebase() {
		return nil, fmt.Errorf("rebase in progress, resolve it first (dotsync sync --continue)")
	}

	result := &SyncLocalResult{RepoPath: settings.RepoPath, TrackedCount: len(registry.TrackedFiles)}
	if result.TrackedCount == 0 {
		return result, nil
	}

	key, err := resolveKey(settings, registry, p)
	if err != nil {
		return nil, err
	}

	engine := syncer.NewEngine(settings.RepoPath, settings.HomeDir, git, key, log)
	exported, err := engine.Export(registry.TrackedFiles)
	if err != nil {
		return nil, err
	}
	result.Exported = exported

	audit.Log(settings.RepoPath, audit.Entry{Operation: "sync-local", ExportedCount: exported})
	return result, nil
}
