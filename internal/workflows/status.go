package workflows

import (
	"context"
	"sort"

	"github.com/dotsync/dotsync/internal/gitrepo"
	logger "github.com/dotsync/dotsync/internal/logging"
	"github.com/dotsync/dotsync/internal/syncer"
	"github.com/dotsync/dotsync/internal/vault"
)

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// Stubs filters the report to these stub names (a direct path entry
	// counts as stub "direct"). Empty means everything.
	Stubs []string

	// RepoPath overrides the resolved repository path.
	RepoPath string
}

// StatusGroup is the per-stub slice of file states, for grouped display.
type StatusGroup struct {
	Stub  string
	Files []syncer.StatusEntry
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	Groups []StatusGroup

	// KeyAvailable is false when encrypted entries exist but the key could
	// not be loaded; their states degrade to "cannot verify".
	KeyAvailable bool
}

// Status computes the sync state of every tracked entry, grouped by stub.
// A missing encryption key degrades encrypted entries to CannotVerify
// rather than failing; status never prompts.
func Status(ctx context.Context, opts StatusOptions, log logger.Logger) (*StatusResult, error) {
	settings, registry, err := loadRepo(opts.RepoPath)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{KeyAvailable: true}
	var key []byte
	if registry.HasEncrypted() {
		key, err = vault.LoadKey(settings.KeyPath())
		if err != nil {
			key = nil
			result.KeyAvailable = false
		}
	}

	engine := syncer.NewEngine(settings.RepoPath, settings.HomeDir, gitrepo.New(settings.RepoPath), key, log)
	states := engine.Status(registry.TrackedFiles)

	wanted := map[string]bool{}
	for _, stub := range opts.Stubs {
		wanted[stub] = true
	}

	byStub := map[string][]syncer.StatusEntry{}
	for _, entry := range states {
		name := "direct"
		if stub, ok := entry.Entry.FromStub(); ok {
			name = stub
		}
		if len(wanted) > 0 && !wanted[name] {
			continue
		}
		byStub[name] = append(byStub[name], entry)
	}

	names := make([]string, 0, len(byStub))
	for name := range byStub {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		result.Groups = append(result.Groups, StatusGroup{Stub: name, Files: byStub[name]})
	}
	return result, nil
}
