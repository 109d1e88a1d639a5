package configs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	kerrors "github.com/dotsync/dotsync/internal/errors"
)

func TestRegistry_AddRejectsDuplicatePath(t *testing.T) {
	reg := &Registry{}
	require.NoError(t, reg.Add(NewDirectEntry("~/.vimrc", false)))

	// Same path again, even from a different origin or with a different
	// encrypted flag, must be rejected.
	err := reg.Add(NewStubEntry("vim", "~/.vimrc", true))
	require.ErrorIs(t, err, kerrors.ErrDuplicatePath)
	require.Len(t, reg.TrackedFiles, 1)
}

func TestRegistry_RemoveByPath(t *testing.T) {
	reg := &Registry{}
	require.NoError(t, reg.Add(NewDirectEntry("~/.vimrc", false)))
	require.NoError(t, reg.Add(NewDirectEntry("~/.zshrc", false)))

	require.NoError(t, reg.RemoveByPath("~/.vimrc"))
	require.Len(t, reg.TrackedFiles, 1)
	require.Equal(t, "~/.zshrc", reg.TrackedFiles[0].Path)

	err := reg.RemoveByPath("~/.vimrc")
	require.ErrorIs(t, err, kerrors.ErrNotTracked)
}

func TestRegistry_RemoveByStub(t *testing.T) {
	reg := &Registry{}
	require.NoError(t, reg.Add(NewStubEntry("git", "~/.gitconfig", false)))
	require.NoError(t, reg.Add(NewStubEntry("git", "~/.gitignore_global", false)))
	require.NoError(t, reg.Add(NewDirectEntry("~/.zshrc", false)))

	removed, err := reg.RemoveByStub("git")
	require.NoError(t, err)
	require.Equal(t, 2, removed)
	require.Len(t, reg.TrackedFiles, 1)

	_, err = reg.RemoveByStub("git")
	require.ErrorIs(t, err, kerrors.ErrNotTracked)
}

func TestRegistry_SaveLoadRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, RegistryName)

	reg := &Registry{}
	require.NoError(t, reg.Add(NewStubEntry("vim", "~/.vimrc", false)))
	require.NoError(t, reg.Add(NewDirectEntry("~/.ssh/config", true)))
	require.NoError(t, SaveRegistry(path, reg))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Equal(t, reg.TrackedFiles, loaded.TrackedFiles)

	stub, ok := loaded.TrackedFiles[0].FromStub()
	require.True(t, ok)
	require.Equal(t, "vim", stub)
	_, ok = loaded.TrackedFiles[1].FromStub()
	require.False(t, ok)
}

func TestRegistry_PersistedFormIsPrettyJSON(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, RegistryName)

	reg := &Registry{}
	require.NoError(t, reg.Add(NewDirectEntry("~/.vimrc", false)))
	require.NoError(t, SaveRegistry(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "\n  ", "registry must be pretty-printed")

	// Entry shape on the wire: {stub, path, encrypted}.
	var raw struct {
		TrackedFiles []map[string]any `json:"tracked_files"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw.TrackedFiles, 1)
	require.Contains(t, raw.TrackedFiles[0], "stub")
	require.Contains(t, raw.TrackedFiles[0], "path")
	require.Contains(t, raw.TrackedFiles[0], "encrypted")
	require.Nil(t, raw.TrackedFiles[0]["stub"])
}

func TestLoadRegistry_MissingFileIsEmpty(t *testing.T) {
	tmp := t.TempDir()
	reg, err := LoadRegistry(filepath.Join(tmp, "absent.json"))
	require.NoError(t, err)
	require.Empty(t, reg.TrackedFiles)
}

func TestRegistry_HasEncrypted(t *testing.T) {
	reg := &Registry{}
	require.NoError(t, reg.Add(NewDirectEntry("~/.vimrc", false)))
	require.False(t, reg.HasEncrypted())

	require.NoError(t, reg.Add(NewDirectEntry("~/.netrc", true)))
	require.True(t, reg.HasEncrypted())
}
