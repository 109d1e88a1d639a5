package workflows

import (
	"context"

	"github.com/dotsync/dotsync/internal/stubdb"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	// All lists every stub in the database instead of tracked entries.
	All bool

	// RepoPath overrides the resolved repository path.
	RepoPath string
}

// StubInfo describes one stub available in the database.
type StubInfo struct {
	Stub        string
	DisplayName string
	ConfigFiles []string
	Custom      bool
}

// ListResult contains the outcome of a list operation.
type ListResult struct {
	// Tracked holds the registry entries (when All is false).
	Tracked []TrackedInfo

	// Stubs holds the available database stubs (when All is true).
	Stubs []StubInfo
}

// TrackedInfo describes one tracked entry for display.
type TrackedInfo struct {
	Stub      string // empty for direct paths
	Path      string
	Encrypted bool
}

// List reports either the tracked entries or the full stub database.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	settings, registry, err := loadRepo(opts.RepoPath)
	if err != nil {
		return nil, err
	}

	result := &ListResult{}
	if !opts.All {
		for _, entry := range registry.TrackedFiles {
			info := TrackedInfo{Path: entry.Path, Encrypted: entry.Encrypted}
			if stub, ok := entry.FromStub(); ok {
				info.Stub = stub
			}
			result.Tracked = append(result.Tracked, info)
		}
		return result, nil
	}

	db, err := stubdb.Load(settings.RepoPath, localTag(settings))
	if err != nil {
		return nil, err
	}
	names, err := db.Names()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		stub, err := db.Lookup(name)
		if err != nil {
			continue
		}
		result.Stubs = append(result.Stubs, StubInfo{
			Stub:        name,
			DisplayName: stub.Name,
			ConfigFiles: stub.ConfigFiles,
			Custom:      stub.Custom,
		})
	}
	return result, nil
}
