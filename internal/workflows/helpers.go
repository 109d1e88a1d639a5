package workflows

import (
	"fmt"
	"strings"

	"github.com/dotsync/dotsync/internal/configs"
	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/vault"
)

// loadRepo resolves settings for repoPath (empty means "use the local
// overlay or working directory") and loads the registry. It fails when the
// directory has never been initialized.
func loadRepo(repoPath string) (*configs.Settings, *configs.Registry, error) {
	settings, err := configs.NewSettings(repoPath)
	if err != nil {
		return nil, nil, err
	}
	if !settings.IsInitialized() {
		return nil, nil, fmt.Errorf("%w: %s", kerrors.ErrNotInitialized, settings.RepoPath)
	}
	registry, err := configs.LoadRegistry(settings.RegistryPath())
	if err != nil {
		return nil, nil, err
	}
	return settings, registry, nil
}

// resolveKey returns the encryption key when the registry contains
// encrypted entries, running recovery through the prompter if this machine
// lacks the key. Returns nil without error when nothing is encrypted.
func resolveKey(settings *configs.Settings, registry *configs.Registry, p vault.Prompter) ([]byte, error) {
	if !registry.HasEncrypted() {
		return nil, nil
	}
	custody := vault.Custody{KeyPath: settings.KeyPath(), RepoPath: settings.RepoPath}
	return custody.EnsureKey(p)
}

// localTag reads the machine tag from the local overlay, if any.
func localTag(settings *configs.Settings) string {
	local, err := configs.LoadLocal(settings.LocalConfigPath())
	if err != nil {
		return ""
	}
	return local.Tag
}

// isDirectPath distinguishes a filesystem path argument from a stub name:
// anything with a separator, tilde, or leading dot is a path.
func isDirectPath(target string) bool {
	return strings.ContainsRune(target, '/') ||
		strings.HasPrefix(target, "~") ||
		strings.HasPrefix(target, ".")
}
