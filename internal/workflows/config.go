package workflows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dotsync/dotsync/internal/configs"
	kerrors "github.com/dotsync/dotsync/internal/errors"
)

// ConfigResult carries the machine-local overlay and where it lives.
type ConfigResult struct {
	Local configs.LocalConfig
	Path  string
}

// ShowConfig reads the machine-local overlay. A missing overlay is not an
// error; every field simply reads as unset.
func ShowConfig(ctx context.Context) (*ConfigResult, error) {
	settings, err := configs.NewSettings("")
	if err != nil {
		return nil, err
	}
	local, err := configs.LoadLocal(settings.LocalConfigPath())
	if err != nil {
		return nil, err
	}
	return &ConfigResult{Local: *local, Path: settings.LocalConfigPath()}, nil
}

// SetConfig updates one field of the machine-local overlay, preserving the
// others. Valid fields are repo_path, home_path, and tag.
func SetConfig(ctx context.Context, field, value string) (*ConfigResult, error) {
	settings, err := configs.NewSettings("")
	if err != nil {
		return nil, err
	}
	path := settings.LocalConfigPath()
	local, err := configs.LoadLocal(path)
	if err != nil {
		return nil, err
	}

	switch field {
	case "repo_path":
		abs, err := filepath.Abs(value)
		if err != nil {
			return nil, err
		}
		local.RepoPath = abs
	case "home_path":
		local.HomePath = value
	case "tag":
		local.Tag = value
	default:
		return nil, fmt.Errorf("unknown config field %q (valid: repo_path, home_path, tag)", field)
	}

	if err := configs.SaveLocal(path, local); err != nil {
		return nil, err
	}
	return &ConfigResult{Local: *local, Path: path}, nil
}

// RepoPath resolves the repository path for shell integration, e.g.
// cd "$(dotsync cd)". It fails when no initialized repository can be found.
func RepoPath(ctx context.Context) (string, error) {
	settings, err := configs.NewSettings("")
	if err != nil {
		return "", err
	}
	if !settings.IsInitialized() {
		return "", fmt.Errorf("%w: %s", kerrors.ErrNotInitialized, settings.RepoPath)
	}
	return settings.RepoPath, nil
}
