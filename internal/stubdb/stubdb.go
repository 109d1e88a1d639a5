// Package stubdb provides the application stub database: named,
// pre-defined lists of configuration file paths ("the vim stub", "the git
// stub"). A read-only default set ships embedded in the binary; users can
// add custom stubs under the repository's custom_db/ directory, which take
// precedence over the embedded set.
package stubdb

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kerrors "github.com/dotsync/dotsync/internal/errors"
)

//go:embed stubs.json
var embeddedStubs []byte

// Stub is one application's pre-defined configuration file list.
type Stub struct {
	Name        string   `json:"name"`
	ConfigFiles []string `json:"config_files"`

	// Custom marks stubs loaded from the repository's custom_db rather
	// than the embedded set.
	Custom bool `json:"-"`
}

// DB is the stub database: the embedded defaults plus the repository's
// custom stubs. Load it once at startup and pass it by reference; the
// struct is immutable after Load (CreateStub writes to disk, not into a
// loaded DB).
type DB struct {
	defaults  map[string]Stub
	customDir string
}

// Load parses the embedded default database and binds the custom-stub
// directory for the given repository. An optional tag selects a namespace
// under custom_db so machines can keep diverging stub sets.
func Load(repoPath, tag string) (*DB, error) {
	var defaults map[string]Stub
	if err := json.Unmarshal(embeddedStubs, &defaults); err != nil {
		return nil, fmt.Errorf("failed to parse embedded stub database: %w", err)
	}

	customDir := filepath.Join(repoPath, "custom_db")
	if tag != "" {
		customDir = filepath.Join(customDir, tag)
	}

	return &DB{defaults: defaults, customDir: customDir}, nil
}

// Lookup finds the stub by name; custom stubs shadow embedded ones.
// Returns ErrStubNotFound when the name exists in neither set.
func (db *DB) Lookup(name string) (*Stub, error) {
	if stub, err := db.loadCustom(name); err != nil {
		return nil, err
	} else if stub != nil {
		return stub, nil
	}

	if stub, ok := db.defaults[name]; ok {
		stub.Custom = false
		return &stub, nil
	}
	return nil, fmt.Errorf("%s: %w", name, kerrors.ErrStubNotFound)
}

// Names returns every known stub name, custom and embedded, sorted.
func (db *DB) Names() ([]string, error) {
	seen := make(map[string]bool, len(db.defaults))
	for name := range db.defaults {
		seen[name] = true
	}

	appsDir := filepath.Join(db.customDir, "applications")
	entries, err := os.ReadDir(appsDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to list custom stubs: %w", err)
	}
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".conf"); ok {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateStub writes a custom stub into the repository's custom_db. The
// layout mirrors the historical one: applications/<stub>.conf holds the
// display name, default_configs/<stub>.conf holds one path per line.
func (db *DB) CreateStub(name, displayName string, paths []string) error {
	appsDir := filepath.Join(db.customDir, "applications")
	configsDir := filepath.Join(db.customDir, "default_configs")
	for _, dir := range []string{appsDir, configsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	appFile := filepath.Join(appsDir, name+".conf")
	// #nosec G306 -- Stub definitions are shared repository content.
	if err := os.WriteFile(appFile, []byte("name = "+displayName+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", appFile, err)
	}

	configFile := filepath.Join(configsDir, name+".conf")
	content := strings.Join(paths, "\n") + "\n"
	// #nosec G306 -- Stub definitions are shared repository content.
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFile, err)
	}
	return nil
}

// loadCustom reads a custom stub from disk, returning nil when the stub
// directory has no definition for name.
func (db *DB) loadCustom(name string) (*Stub, error) {
	appFile := filepath.Join(db.customDir, "applications", name+".conf")
	data, err := os.ReadFile(appFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", appFile, err)
	}

	displayName := name
	for _, line := range strings.Split(string(data), "\n") {
		if rest, ok := strings.CutPrefix(line, "name = "); ok {
			displayName = strings.TrimSpace(rest)
			break
		}
	}

	paths, err := readPathList(filepath.Join(db.customDir, "default_configs", name+".conf"))
	if err != nil {
		return nil, err
	}

	return &Stub{Name: displayName, ConfigFiles: paths, Custom: true}, nil
}

func readPathList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var paths []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}
