package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// RegistryName is the tracked-file registry committed at the repository root.
	RegistryName = "dotsync.config.json"

	// LocalConfigName is the per-machine overlay in the home directory.
	LocalConfigName = ".dotsync.local.json"

	// KeyFileName is the encryption key file in the home directory.
	KeyFileName = ".dotsync.key"

	// EnvLocalConfig overrides the local overlay location, for tests and
	// unusual home setups.
	EnvLocalConfig = "DOTSYNC_LOCAL_CONFIG"
)

// Settings resolves the well-known paths for one command run. Build it once
// in the cmd layer and pass it down; nothing in this struct mutates.
type Settings struct {
	// HomeDir is the user's home directory.
	HomeDir string

	// RepoPath is the dotfiles repository root.
	RepoPath string
}

// NewSettings builds Settings for the given repository path. An empty
// repoPath means "resolve from the local overlay, falling back to the
// working directory".
func NewSettings(repoPath string) (*Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	s := &Settings{HomeDir: home, RepoPath: repoPath}
	if s.RepoPath == "" {
		resolved, err := resolveRepoPath(s.LocalConfigPath())
		if err != nil {
			return nil, err
		}
		s.RepoPath = resolved
	}
	return s, nil
}

// KeyPath is the encryption key file. Always under the home directory,
// never under the repository.
func (s *Settings) KeyPath() string {
	return filepath.Join(s.HomeDir, KeyFileName)
}

// LocalConfigPath is the machine-local overlay file, honoring the
// DOTSYNC_LOCAL_CONFIG override.
func (s *Settings) LocalConfigPath() string {
	if env := os.Getenv(EnvLocalConfig); env != "" {
		return env
	}
	return filepath.Join(s.HomeDir, LocalConfigName)
}

// RegistryPath is the tracked-file registry inside the repository.
func (s *Settings) RegistryPath() string {
	return filepath.Join(s.RepoPath, RegistryName)
}

// IsInitialized reports whether the repository has a registry file.
func (s *Settings) IsInitialized() bool {
	info, err := os.Stat(s.RegistryPath())
	return err == nil && !info.IsDir()
}

// resolveRepoPath reads the repo path from the local overlay, falling back
// to the current working directory when no overlay exists.
func resolveRepoPath(localConfigPath string) (string, error) {
	local, err := LoadLocal(localConfigPath)
	if err != nil {
		return "", err
	}
	if local.RepoPath != "" {
		return local.RepoPath, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
