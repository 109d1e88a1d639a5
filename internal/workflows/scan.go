package workflows

import (
	"context"

	logger "github.com/dotsync/dotsync/internal/logging"
	"github.com/dotsync/dotsync/internal/mirror"
	"github.com/dotsync/dotsync/internal/stubdb"
	"github.com/dotsync/dotsync/internal/syncer"
	"github.com/dotsync/dotsync/internal/vault"
)

// ScanOptions configures the scan workflow.
type ScanOptions struct {
	// RepoPath overrides the resolved repository path.
	RepoPath string
}

// ScanStub is one stub with configuration present on this machine.
type ScanStub struct {
	Stub        string
	ConfigFiles []string
}

// ScanResult categorizes every stub whose files exist on this system.
type ScanResult struct {
	// Synced stubs are tracked and fully in sync.
	Synced []ScanStub

	// OutOfSync stubs are tracked but at least one file differs.
	OutOfSync []ScanStub

	// Unmanaged stubs exist on the system but are not tracked.
	Unmanaged []ScanStub
}

// Scan walks the stub database and reports which applications on this
// machine are tracked, out of sync, or not managed at all. Stubs with no
// files present are skipped entirely.
func Scan(ctx context.Context, opts ScanOptions, log logger.Logger) (*ScanResult, error) {
	settings, registry, err := loadRepo(opts.RepoPath)
	if err != nil {
		return nil, err
	}

	db, err := stubdb.Load(settings.RepoPath, localTag(settings))
	if err != nil {
		return nil, err
	}
	names, err := db.Names()
	if err != nil {
		return nil, err
	}

	trackedStubs := map[string]bool{}
	for _, entry := range registry.TrackedFiles {
		if stub, ok := entry.FromStub(); ok {
			trackedStubs[stub] = true
		}
	}

	var key []byte
	if registry.HasEncrypted() {
		if k, err := vault.LoadKey(settings.KeyPath()); err == nil {
			key = k
		}
	}
	engine := syncer.NewEngine(settings.RepoPath, settings.HomeDir, nil, key, log)
	stateByPath := map[string]syncer.FileState{}
	for _, entry := range engine.Status(registry.TrackedFiles) {
		stateByPath[entry.Entry.Path] = entry.State
	}

	result := &ScanResult{}
	for _, name := range names {
		stub, err := db.Lookup(name)
		if err != nil {
			continue
		}

		present := false
		for _, path := range stub.ConfigFiles {
			if mirror.Exists(mirror.ExpandTilde(path, settings.HomeDir)) {
				present = true
				break
			}
		}
		if !present {
			continue
		}

		scanStub := ScanStub{Stub: name, ConfigFiles: stub.ConfigFiles}
		if !trackedStubs[name] {
			result.Unmanaged = append(result.Unmanaged, scanStub)
			continue
		}

		inSync := true
		for _, path := range stub.ConfigFiles {
			state, ok := stateByPath[path]
			if ok && state != syncer.InSync && state != syncer.MissingInHome {
				inSync = false
				break
			}
		}
		if inSync {
			result.Synced = append(result.Synced, scanStub)
		} else {
			result.OutOfSync = append(result.OutOfSync, scanStub)
		}
	}
	return result, nil
}
