package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotsync/dotsync/internal/audit"
	"github.com/dotsync/dotsync/internal/stubdb"
)

// CreateStubOptions configures the create workflow.
type CreateStubOptions struct {
	// Stub is the new stub's name, e.g. "myapp".
	Stub string

	// Paths are the home-relative config paths the stub covers.
	Paths []string

	// Tag overrides the machine tag from the local overlay.
	Tag string

	// RepoPath overrides the resolved repository path.
	RepoPath string
}

// CreateStubResult contains the outcome of a create operation.
type CreateStubResult struct {
	Stub        string
	DisplayName string
	Paths       []string
	Tag         string
}

// CreateStub defines a custom stub in the repository database. The display
// name is derived from the stub name ("my-app" becomes "My App"). Creating
// a stub that already exists is an error; custom stubs may however shadow
// embedded ones deliberately via the custom database.
func CreateStub(ctx context.Context, opts CreateStubOptions) (*CreateStubResult, error) {
	settings, _, err := loadRepo(opts.RepoPath)
	if err != nil {
		return nil, err
	}
	if len(opts.Paths) == 0 {
		return nil, fmt.Errorf("no paths provided for stub %q", opts.Stub)
	}

	tag := opts.Tag
	if tag == "" {
		tag = localTag(settings)
	}

	db, err := stubdb.Load(settings.RepoPath, tag)
	if err != nil {
		return nil, err
	}
	if _, err := db.Lookup(opts.Stub); err == nil {
		return nil, fmt.Errorf("stub %q already exists", opts.Stub)
	}

	displayName := titleFromStub(opts.Stub)
	if err := db.CreateStub(opts.Stub, displayName, opts.Paths); err != nil {
		return nil, err
	}

	audit.Log(settings.RepoPath, audit.Entry{Operation: "create-stub", Stub: opts.Stub})
	return &CreateStubResult{
		Stub:        opts.Stub,
		DisplayName: displayName,
		Paths:       opts.Paths,
		Tag:         tag,
	}, nil
}

// titleFromStub turns "my-app" into "My App".
func titleFromStub(stub string) string {
	parts := strings.Split(stub, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
