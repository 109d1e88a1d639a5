package workflows

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dotsync/dotsync/internal/audit"
	"github.com/dotsync/dotsync/internal/configs"
	kerrors "github.com/dotsync/dotsync/internal/errors"
	"github.com/dotsync/dotsync/internal/mirror"
	"github.com/dotsync/dotsync/internal/stubdb"
	"github.com/dotsync/dotsync/internal/syncer"
	"github.com/dotsync/dotsync/internal/vault"
)

// AddOptions configures the add workflow.
type AddOptions struct {
	// Target is a stub name or a direct path (anything containing a
	// separator, tilde, or leading dot is treated as a path).
	Target string

	// Encrypt marks every added entry for encryption at rest.
	Encrypt bool

	// RepoPath overrides the resolved repository path. Empty means "use
	// the local overlay or working directory".
	RepoPath string
}

// AddResult contains the outcome of an add operation.
type AddResult struct {
	// Stub is the stub name used, empty for a direct path.
	Stub string

	// Added lists newly tracked home paths.
	Added []string

	// Copied lists paths whose content was copied into the repository now.
	Copied []string

	// Skipped lists stub paths that do not exist on this machine. They are
	// tracked anyway so another machine can supply them.
	Skipped []string
}

// Add starts tracking a stub's files or one direct path, copying existing
// content into the repository immediately. With Encrypt set, the first
// encrypted add runs the key-generation ceremony through the prompter.
func Add(ctx context.Context, opts AddOptions, p vault.Prompter) (*AddResult, error) {
	settings, registry, err := loadRepo(opts.RepoPath)
	if err != nil {
		return nil, err
	}

	var key []byte
	if opts.Encrypt {
		key, err = ensureEncryptionKey(settings, p)
		if err != nil {
			return nil, err
		}
	}

	var result *AddResult
	if isDirectPath(opts.Target) {
		result, err = addDirect(settings, registry, opts, key)
	} else {
		result, err = addStub(settings, registry, opts, key)
	}
	if err != nil {
		return nil, err
	}

	if err := configs.SaveRegistry(settings.RegistryPath(), registry); err != nil {
		return nil, err
	}

	for _, path := range result.Added {
		audit.Log(settings.RepoPath, audit.Entry{
			Operation: "add",
			Path:      path,
			Stub:      result.Stub,
			Encrypted: opts.Encrypt,
		})
	}
	return result, nil
}

// ensureEncryptionKey runs the ceremony on first encrypted use, recovery on
// a keyless machine, and a plain key load otherwise.
func ensureEncryptionKey(settings *configs.Settings, p vault.Prompter) ([]byte, error) {
	custody := vault.Custody{KeyPath: settings.KeyPath(), RepoPath: settings.RepoPath}
	if custody.State() == vault.Unconfigured {
		return custody.Ceremony(p)
	}
	key, err := custody.EnsureKey(p)
	if err != nil {
		return nil, err
	}
	// Heal repositories that predate the marker.
	if !vault.HasMarker(settings.RepoPath) {
		if err := vault.WriteMarker(settings.RepoPath); err != nil {
			return nil, err
		}
	}
	return key, nil
}

func addDirect(settings *configs.Settings, registry *configs.Registry, opts AddOptions, key []byte) (*AddResult, error) {
	expanded := mirror.ExpandTilde(opts.Target, settings.HomeDir)
	if !mirror.Exists(expanded) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrPathNotFound, opts.Target)
	}
	if opts.Encrypt && mirror.IsDir(expanded) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrEncryptDirectory, opts.Target)
	}

	normalized := opts.Target
	if stripped, ok := mirror.StripTilde(expanded, settings.HomeDir); ok {
		normalized = stripped
	}

	if err := registry.Add(configs.NewDirectEntry(normalized, opts.Encrypt)); err != nil {
		return nil, err
	}

	if err := copyIntoRepo(settings, normalized, expanded, opts.Encrypt, key); err != nil {
		return nil, err
	}

	return &AddResult{
		Added:  []string{normalized},
		Copied: []string{normalized},
	}, nil
}

func addStub(settings *configs.Settings, registry *configs.Registry, opts AddOptions, key []byte) (*AddResult, error) {
	db, err := stubdb.Load(settings.RepoPath, localTag(settings))
	if err != nil {
		return nil, err
	}
	stub, err := db.Lookup(opts.Target)
	if err != nil {
		return nil, err
	}

	result := &AddResult{Stub: opts.Target}
	for _, path := range stub.ConfigFiles {
		err := registry.Add(configs.NewStubEntry(opts.Target, path, opts.Encrypt))
		if errors.Is(err, kerrors.ErrDuplicatePath) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Added = append(result.Added, path)

		expanded := mirror.ExpandTilde(path, settings.HomeDir)
		if !mirror.Exists(expanded) {
			result.Skipped = append(result.Skipped, path)
			continue
		}
		if opts.Encrypt && mirror.IsDir(expanded) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrEncryptDirectory, path)
		}
		if err := copyIntoRepo(settings, path, expanded, opts.Encrypt, key); err != nil {
			return nil, err
		}
		result.Copied = append(result.Copied, path)
	}
	return result, nil
}

// copyIntoRepo mirrors one home path into the repository tree, encrypting
// when asked. Callers have already rejected encrypted directories.
func copyIntoRepo(settings *configs.Settings, homePath, expanded string, encrypt bool, key []byte) error {
	repoFile := filepath.Join(settings.RepoPath, mirror.RepoRelative(homePath))
	if encrypt {
		return vault.EncryptFile(expanded, repoFile+syncer.EncryptedExt, key)
	}
	return mirror.SyncFile(expanded, repoFile)
}
