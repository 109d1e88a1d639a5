package workflows

import (
	"context"

	"github.com/dotsync/dotsync/internal/audit"
	"github.com/dotsync/dotsync/internal/configs"
	"github.com/dotsync/dotsync/internal/mirror"
)

// RemoveOptions configures the remove workflow.
type RemoveOptions struct {
	// Target is a stub name or a direct path, matched the same way Add
	// decided it.
	Target string

	// RepoPath overrides the resolved repository path.
	RepoPath string
}

// RemoveResult contains the outcome of a remove operation.
type RemoveResult struct {
	// Removed is how many registry entries were dropped.
	Removed int

	// Stub is set when the target was a stub name.
	Stub string
}

// Remove untracks a stub or path. Repository-side files are left in place;
// removal only changes what future syncs manage.
func Remove(ctx context.Context, opts RemoveOptions) (*RemoveResult, error) {
	settings, registry, err := loadRepo(opts.RepoPath)
	if err != nil {
		return nil, err
	}

	result := &RemoveResult{}
	if isDirectPath(opts.Target) {
		normalized := opts.Target
		expanded := mirror.ExpandTilde(opts.Target, settings.HomeDir)
		if stripped, ok := mirror.StripTilde(expanded, settings.HomeDir); ok {
			normalized = stripped
		}
		if err := registry.RemoveByPath(normalized); err != nil {
			return nil, err
		}
		result.Removed = 1
	} else {
		removed, err := registry.RemoveByStub(opts.Target)
		if err != nil {
			return nil, err
		}
		result.Removed = removed
		result.Stub = opts.Target
	}

	if err := configs.SaveRegistry(settings.RegistryPath(), registry); err != nil {
		return nil, err
	}

	audit.Log(settings.RepoPath, audit.Entry{
		Operation:    "remove",
		Path:         opts.Target,
		Stub:         result.Stub,
		RemovedCount: result.Removed,
	})
	return result, nil
}
