package configs

import (
	"encoding/json"
	"fmt"
	"os"

	kerrors "github.com/dotsync/dotsync/internal/errors"
)

// TrackedEntry is one record in the registry: where a tracked file came
// from (a named stub or a direct add), its home-side path, and whether it
// is stored encrypted. Entries are never mutated in place; removal plus
// re-add is the only update.
type TrackedEntry struct {
	// Stub names the application stub this entry came from, or nil for a
	// directly added path. The origin is decided once at creation and
	// carried structurally from then on.
	Stub *string `json:"stub"`

	// Path is the home-side location, "~/"-prefixed or absolute.
	Path string `json:"path"`

	// Encrypted marks the entry for encryption at rest in the repository.
	Encrypted bool `json:"encrypted"`
}

// NewStubEntry creates an entry originating from the named stub.
func NewStubEntry(stub, path string, encrypted bool) TrackedEntry {
	return TrackedEntry{Stub: &stub, Path: path, Encrypted: encrypted}
}

// NewDirectEntry creates an entry for a directly added path.
func NewDirectEntry(path string, encrypted bool) TrackedEntry {
	return TrackedEntry{Path: path, Encrypted: encrypted}
}

// FromStub returns the stub name when the entry originated from one.
func (e TrackedEntry) FromStub() (string, bool) {
	if e.Stub == nil {
		return "", false
	}
	return *e.Stub, true
}

// Registry is the ordered list of tracked entries, the source of truth for
// what dotsync manages.
type Registry struct {
	TrackedFiles []TrackedEntry `json:"tracked_files"`
}

// LoadRegistry reads the registry at path. A missing file yields an empty
// registry, not an error; initialization is checked separately.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{}, nil
		}
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes the registry pretty-printed to path.
func SaveRegistry(path string, reg *Registry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize registry: %w", err)
	}
	// #nosec G306 -- The registry holds paths, not secrets, and is committed anyway.
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry %s: %w", path, err)
	}
	return nil
}

// Add appends entry, rejecting a duplicate of an already tracked path.
func (r *Registry) Add(entry TrackedEntry) error {
	for _, existing := range r.TrackedFiles {
		if existing.Path == entry.Path {
			return fmt.Errorf("%s: %w", entry.Path, kerrors.ErrDuplicatePath)
		}
	}
	r.TrackedFiles = append(r.TrackedFiles, entry)
	return nil
}

// RemoveByPath removes the entry tracking path. Returns ErrNotTracked when
// nothing matches.
func (r *Registry) RemoveByPath(path string) error {
	for i, entry := range r.TrackedFiles {
		if entry.Path == path {
			r.TrackedFiles = append(r.TrackedFiles[:i], r.TrackedFiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", path, kerrors.ErrNotTracked)
}

// RemoveByStub removes every entry that originated from the named stub and
// returns how many were removed. Returns ErrNotTracked when none did.
func (r *Registry) RemoveByStub(stub string) (int, error) {
	kept := r.TrackedFiles[:0]
	removed := 0
	for _, entry := range r.TrackedFiles {
		if name, ok := entry.FromStub(); ok && name == stub {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	if removed == 0 {
		return 0, fmt.Errorf("%s: %w", stub, kerrors.ErrNotTracked)
	}
	r.TrackedFiles = kept
	return removed, nil
}

// HasEncrypted reports whether any tracked entry is marked encrypted.
func (r *Registry) HasEncrypted() bool {
	for _, entry := range r.TrackedFiles {
		if entry.Encrypted {
			return true
		}
	}
	return false
}
