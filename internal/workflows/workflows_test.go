package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotsync/dotsync/internal/configs"
	kerrors "github.com/dotsync/dotsync/internal/errors"
	logger "github.com/dotsync/dotsync/internal/logging"
	"github.com/dotsync/dotsync/internal/syncer"
	"github.com/dotsync/dotsync/internal/vault"
)

type scriptedPrompter struct {
	confirm bool
	phrase  string
	shown   string
}

func (p *scriptedPrompter) Confirm(string) (bool, error) { return p.confirm, nil }

func (p *scriptedPrompter) ReadPhrase(string) (string, error) { return p.phrase, nil }

func (p *scriptedPrompter) ShowMnemonic(m string) { p.shown = m }

// setupRepo initializes an isolated home and repository without shelling
// out to git: the registry file alone marks the repo as initialized.
func setupRepo(t *testing.T) (home, repo string) {
	t.Helper()
	home = t.TempDir()
	repo = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(configs.EnvLocalConfig, filepath.Join(home, configs.LocalConfigName))
	require.NoError(t, configs.SaveRegistry(filepath.Join(repo, configs.RegistryName), &configs.Registry{}))
	return home, repo
}

func writeHome(t *testing.T, home, rel, content string) {
	t.Helper()
	path := filepath.Join(home, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAdd_DirectPath(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".vimrc", "set nu\n")

	result, err := Add(context.Background(), AddOptions{Target: "~/.vimrc", RepoPath: repo}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"~/.vimrc"}, result.Added)

	data, err := os.ReadFile(filepath.Join(repo, ".vimrc"))
	require.NoError(t, err)
	require.Equal(t, "set nu\n", string(data))

	registry, err := configs.LoadRegistry(filepath.Join(repo, configs.RegistryName))
	require.NoError(t, err)
	require.Len(t, registry.TrackedFiles, 1)
	require.Equal(t, "~/.vimrc", registry.TrackedFiles[0].Path)
	require.False(t, registry.TrackedFiles[0].Encrypted)
}

func TestAdd_DirectPathRejectsDuplicate(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".vimrc", "set nu\n")

	_, err := Add(context.Background(), AddOptions{Target: "~/.vimrc", RepoPath: repo}, nil)
	require.NoError(t, err)
	_, err = Add(context.Background(), AddOptions{Target: "~/.vimrc", RepoPath: repo}, nil)
	require.ErrorIs(t, err, kerrors.ErrDuplicatePath)
}

func TestAdd_MissingPath(t *testing.T) {
	_, repo := setupRepo(t)
	_, err := Add(context.Background(), AddOptions{Target: "~/.does-not-exist", RepoPath: repo}, nil)
	require.ErrorIs(t, err, kerrors.ErrPathNotFound)
}

func TestAdd_EncryptedDirectoryRejected(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".ssh/config", "Host *\n")

	p := &scriptedPrompter{confirm: true}
	_, err := Add(context.Background(), AddOptions{Target: "~/.ssh", Encrypt: true, RepoPath: repo}, p)
	require.ErrorIs(t, err, kerrors.ErrEncryptDirectory)

	// Nothing was tracked.
	registry, err := configs.LoadRegistry(filepath.Join(repo, configs.RegistryName))
	require.NoError(t, err)
	require.Empty(t, registry.TrackedFiles)
}

func TestAdd_EncryptedRunsCeremony(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".netrc", "machine example\n")

	p := &scriptedPrompter{confirm: true}
	result, err := Add(context.Background(), AddOptions{Target: "~/.netrc", Encrypt: true, RepoPath: repo}, p)
	require.NoError(t, err)
	require.Equal(t, []string{"~/.netrc"}, result.Added)
	require.NotEmpty(t, p.shown)

	// Ceremony side effects: key in home, marker in repo, blob not plaintext.
	require.True(t, vault.HasKey(filepath.Join(home, configs.KeyFileName)))
	require.True(t, vault.HasMarker(repo))

	blob, err := os.ReadFile(filepath.Join(repo, ".netrc"+syncer.EncryptedExt))
	require.NoError(t, err)
	require.NotContains(t, string(blob), "machine example")
}

func TestAdd_EncryptedCeremonyDeclined(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".netrc", "secret\n")

	p := &scriptedPrompter{confirm: false}
	_, err := Add(context.Background(), AddOptions{Target: "~/.netrc", Encrypt: true, RepoPath: repo}, p)
	require.ErrorIs(t, err, kerrors.ErrCeremonyDeclined)

	// No partial state anywhere.
	require.False(t, vault.HasKey(filepath.Join(home, configs.KeyFileName)))
	require.False(t, vault.HasMarker(repo))
	registry, err := configs.LoadRegistry(filepath.Join(repo, configs.RegistryName))
	require.NoError(t, err)
	require.Empty(t, registry.TrackedFiles)
}

func TestAdd_StubTracksAllFilesAndSkipsMissing(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".vimrc", "set nu\n")

	result, err := Add(context.Background(), AddOptions{Target: "vim", RepoPath: repo}, nil)
	require.NoError(t, err)

	require.Equal(t, "vim", result.Stub)
	require.Equal(t, []string{"~/.vimrc", "~/.vim/vimrc"}, result.Added)
	require.Equal(t, []string{"~/.vimrc"}, result.Copied)
	require.Equal(t, []string{"~/.vim/vimrc"}, result.Skipped)

	registry, err := configs.LoadRegistry(filepath.Join(repo, configs.RegistryName))
	require.NoError(t, err)
	require.Len(t, registry.TrackedFiles, 2)
	stub, ok := registry.TrackedFiles[0].FromStub()
	require.True(t, ok)
	require.Equal(t, "vim", stub)
}

func TestAdd_UnknownStub(t *testing.T) {
	_, repo := setupRepo(t)
	_, err := Add(context.Background(), AddOptions{Target: "no-such-app", RepoPath: repo}, nil)
	require.ErrorIs(t, err, kerrors.ErrStubNotFound)
}

func TestRemove_ByPathAndByStub(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".vimrc", "set nu\n")
	writeHome(t, home, ".zshrc", "alias l=ls\n")

	_, err := Add(context.Background(), AddOptions{Target: "vim", RepoPath: repo}, nil)
	require.NoError(t, err)
	_, err = Add(context.Background(), AddOptions{Target: "~/.zshrc", RepoPath: repo}, nil)
	require.NoError(t, err)

	result, err := Remove(context.Background(), RemoveOptions{Target: "vim", RepoPath: repo})
	require.NoError(t, err)
	require.Equal(t, 2, result.Removed)

	result, err = Remove(context.Background(), RemoveOptions{Target: "~/.zshrc", RepoPath: repo})
	require.NoError(t, err)
	require.Equal(t, 1, result.Removed)

	// Repo-side files remain after untracking.
	_, err = os.Stat(filepath.Join(repo, ".zshrc"))
	require.NoError(t, err)

	_, err = Remove(context.Background(), RemoveOptions{Target: "~/.zshrc", RepoPath: repo})
	require.ErrorIs(t, err, kerrors.ErrNotTracked)
}

func TestList_TrackedAndAll(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".vimrc", "set nu\n")
	_, err := Add(context.Background(), AddOptions{Target: "~/.vimrc", RepoPath: repo}, nil)
	require.NoError(t, err)

	result, err := List(context.Background(), ListOptions{RepoPath: repo})
	require.NoError(t, err)
	require.Len(t, result.Tracked, 1)
	require.Equal(t, "~/.vimrc", result.Tracked[0].Path)
	require.Empty(t, result.Tracked[0].Stub)

	all, err := List(context.Background(), ListOptions{All: true, RepoPath: repo})
	require.NoError(t, err)
	names := make([]string, 0, len(all.Stubs))
	for _, s := range all.Stubs {
		names = append(names, s.Stub)
	}
	require.Contains(t, names, "vim")
	require.Contains(t, names, "git")
}

func TestCreateStub_AndAddFromIt(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".myapprc", "x=1\n")

	result, err := CreateStub(context.Background(), CreateStubOptions{
		Stub:     "my-app",
		Paths:    []string{"~/.myapprc"},
		RepoPath: repo,
	})
	require.NoError(t, err)
	require.Equal(t, "My App", result.DisplayName)

	_, err = CreateStub(context.Background(), CreateStubOptions{
		Stub:     "my-app",
		Paths:    []string{"~/.myapprc"},
		RepoPath: repo,
	})
	require.Error(t, err)

	added, err := Add(context.Background(), AddOptions{Target: "my-app", RepoPath: repo}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"~/.myapprc"}, added.Copied)
}

func TestStatus_GroupsByStub(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".vimrc", "set nu\n")
	writeHome(t, home, ".zshrc", "alias l=ls\n")

	_, err := Add(context.Background(), AddOptions{Target: "vim", RepoPath: repo}, nil)
	require.NoError(t, err)
	_, err = Add(context.Background(), AddOptions{Target: "~/.zshrc", RepoPath: repo}, nil)
	require.NoError(t, err)

	result, err := Status(context.Background(), StatusOptions{RepoPath: repo}, logger.Logger{})
	require.NoError(t, err)
	require.True(t, result.KeyAvailable)
	require.Len(t, result.Groups, 2)
	require.Equal(t, "direct", result.Groups[0].Stub)
	require.Equal(t, "vim", result.Groups[1].Stub)

	for _, entry := range result.Groups[0].Files {
		require.Equal(t, syncer.InSync, entry.State)
	}

	filtered, err := Status(context.Background(), StatusOptions{RepoPath: repo, Stubs: []string{"vim"}}, logger.Logger{})
	require.NoError(t, err)
	require.Len(t, filtered.Groups, 1)
	require.Equal(t, "vim", filtered.Groups[0].Stub)
}

func TestScan_CategorizesStubs(t *testing.T) {
	home, repo := setupRepo(t)
	writeHome(t, home, ".vimrc", "set nu\n")
	writeHome(t, home, ".tmux.conf", "set -g mouse on\n")

	_, err := Add(context.Background(), AddOptions{Target: "vim", RepoPath: repo}, nil)
	require.NoError(t, err)

	result, err := Scan(context.Background(), ScanOptions{RepoPath: repo}, logger.Logger{})
	require.NoError(t, err)

	stubNames := func(stubs []ScanStub) []string {
		names := make([]string, 0, len(stubs))
		for _, s := range stubs {
			names = append(names, s.Stub)
		}
		return names
	}
	require.Contains(t, stubNames(result.Synced), "vim")
	require.Contains(t, stubNames(result.Unmanaged), "tmux")

	// Drift the tracked file and the stub moves to out of sync.
	writeHome(t, home, ".vimrc", "set nonu\n")
	result, err = Scan(context.Background(), ScanOptions{RepoPath: repo}, logger.Logger{})
	require.NoError(t, err)
	require.Contains(t, stubNames(result.OutOfSync), "vim")
	require.NotContains(t, stubNames(result.Synced), "vim")
}

func TestConfig_SetAndShow(t *testing.T) {
	home, _ := setupRepo(t)

	_, err := SetConfig(context.Background(), "tag", "laptop")
	require.NoError(t, err)
	_, err = SetConfig(context.Background(), "home_path", filepath.Join(home, "alt"))
	require.NoError(t, err)

	result, err := ShowConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, "laptop", result.Local.Tag)
	require.Equal(t, filepath.Join(home, "alt"), result.Local.HomePath)
	require.Equal(t, filepath.Join(home, configs.LocalConfigName), result.Path)
}

func TestConfig_SetRejectsUnknownField(t *testing.T) {
	setupRepo(t)
	_, err := SetConfig(context.Background(), "color_scheme", "dark")
	require.ErrorContains(t, err, "unknown config field")
}

func TestConfig_SetPreservesOtherFields(t *testing.T) {
	_, repo := setupRepo(t)

	_, err := SetConfig(context.Background(), "repo_path", repo)
	require.NoError(t, err)
	_, err = SetConfig(context.Background(), "tag", "desktop")
	require.NoError(t, err)

	result, err := ShowConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, repo, result.Local.RepoPath)
	require.Equal(t, "desktop", result.Local.Tag)
}

func TestRepoPath_ResolvesThroughOverlay(t *testing.T) {
	home, repo := setupRepo(t)
	require.NoError(t, configs.SaveRepoPath(filepath.Join(home, configs.LocalConfigName), repo))

	path, err := RepoPath(context.Background())
	require.NoError(t, err)
	require.Equal(t, repo, path)
}

func TestRepoPath_NotInitialized(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(configs.EnvLocalConfig, filepath.Join(home, configs.LocalConfigName))

	_, err := RepoPath(context.Background())
	require.ErrorIs(t, err, kerrors.ErrNotInitialized)
}

func TestSyncLocal_ExportsRepoChanges(t *testing.T) {
	home, repo := setupRepo(t)
	require.NoError(t, configs.SaveRepoPath(filepath.Join(home, configs.LocalConfigName), repo))
	writeHome(t, home, ".vimrc", "set nu\n")

	_, err := Add(context.Background(), AddOptions{Target: "~/.vimrc", RepoPath: repo}, nil)
	require.NoError(t, err)

	// Simulate a manual repository edit, then export it home.
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".vimrc"), []byte("set nonu\n"), 0o644))

	result, err := SyncLocal(context.Background(), nil, logger.Logger{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Exported)

	data, err := os.ReadFile(filepath.Join(home, ".vimrc"))
	require.NoError(t, err)
	require.Equal(t, "set nonu\n", string(data))
}

func TestSyncLocal_RefusesMidRebase(t *testing.T) {
	home, repo := setupRepo(t)
	require.NoError(t, configs.SaveRepoPath(filepath.Join(home, configs.LocalConfigName), repo))
	writeHome(t, home, ".vimrc", "set nu\n")

	_, err := Add(context.Background(), AddOptions{Target: "~/.vimrc", RepoPath: repo}, nil)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git", "rebase-merge"), 0o755))

	_, err = SyncLocal(context.Background(), nil, logger.Logger{})
	require.ErrorContains(t, err, "rebase in progress")
}
