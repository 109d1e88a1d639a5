package configs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LocalConfig is the machine-local overlay. It is never committed to the
// repository; each machine keeps its own copy in the home directory.
type LocalConfig struct {
	// RepoPath is where the dotfiles repository lives on this machine.
	RepoPath string `json:"repo_path,omitempty"`

	// HomePath overrides the home directory tracked paths resolve
	// against. Empty means the real home directory.
	HomePath string `json:"home_path,omitempty"`

	// Tag selects a custom-stub namespace within the repository.
	Tag string `json:"tag,omitempty"`
}

// Merge overlays override onto base field-by-field: a field set in
// override wins, an unset field falls through to base. Pure function.
func Merge(base, override LocalConfig) LocalConfig {
	merged := base
	if override.RepoPath != "" {
		merged.RepoPath = override.RepoPath
	}
	if override.HomePath != "" {
		merged.HomePath = override.HomePath
	}
	if override.Tag != "" {
		merged.Tag = override.Tag
	}
	return merged
}

// LoadLocal reads the local overlay at path. A missing file yields the
// zero config.
func LoadLocal(path string) (*LocalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LocalConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", path, err)
	}

	var local LocalConfig
	if err := json.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", path, err)
	}
	return &local, nil
}

// SaveLocal writes the local overlay pretty-printed to path.
func SaveLocal(path string, local *LocalConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create local config directory: %w", err)
	}

	data, err := json.MarshalIndent(local, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize local config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write local config %s: %w", path, err)
	}
	return nil
}

// SaveRepoPath records the repository path into the local overlay,
// preserving the other fields.
func SaveRepoPath(path, repoPath string) error {
	local, err := LoadLocal(path)
	if err != nil {
		return err
	}
	merged := Merge(*local, LocalConfig{RepoPath: repoPath})
	return SaveLocal(path, &merged)
}
