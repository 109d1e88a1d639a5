package syncer

import (
	"path/filepath"
	"strings"

	"github.com/dotsync/dotsync/internal/configs"
	logger "github.com/dotsync/dotsync/internal/logging"
	"github.com/dotsync/dotsync/internal/mirror"
)

const (
	// EncryptedExt is appended to an encrypted member's repository-side
	// name. Appending rather than replacing the extension keeps the
	// mapping invertible: stripping the suffix recovers the original name.
	EncryptedExt = ".enc"

	// BackupDirName holds timestamped plaintext snapshots inside the
	// repository. It is gitignored and never pushed.
	BackupDirName = ".backup"

	// ConflictsDirName holds temporary plaintext merge views of encrypted
	// members while a rebase conflict is being resolved.
	ConflictsDirName = ".dotsync-conflicts"

	remoteName = "origin"
)

// Engine runs the sync protocol over one repository / home-directory pair.
// Key may be nil when no tracked entry is encrypted; the engine fails any
// encrypted operation it reaches without a key rather than guessing.
type Engine struct {
	RepoPath string
	HomeDir  string
	Git      Git
	Key      []byte
	Logger   logger.Logger
}

func NewEngine(repoPath, homeDir string, git Git, key []byte, log logger.Logger) *Engine {
	return &Engine{
		RepoPath: repoPath,
		HomeDir:  homeDir,
		Git:      git,
		Key:      key,
		Logger:   log,
	}
}

// homePath resolves a tracked entry to its absolute home-side location.
func (e *Engine) homePath(entry configs.TrackedEntry) string {
	return mirror.ExpandTilde(entry.Path, e.HomeDir)
}

// repoPath resolves a tracked entry to its plaintext repository-side
// location. Encrypted entries store their blob at encryptedPath instead.
func (e *Engine) repoPath(entry configs.TrackedEntry) string {
	return filepath.Join(e.RepoPath, mirror.RepoRelative(entry.Path))
}

func (e *Engine) encryptedPath(entry configs.TrackedEntry) string {
	return e.repoPath(entry) + EncryptedExt
}

func (e *Engine) conflictsDir() string {
	return filepath.Join(e.RepoPath, ConflictsDirName)
}

// conflictViewPath is where an encrypted member's plaintext merge view
// lives during conflict resolution: the conflicts dir plus the member's
// repo-relative name without the encrypted suffix.
func (e *Engine) conflictViewPath(entry configs.TrackedEntry) string {
	return filepath.Join(e.conflictsDir(), mirror.RepoRelative(entry.Path))
}

// PlainMemberName strips the encrypted suffix from a repository-relative
// member name, recovering the name the file has in the home directory.
func PlainMemberName(name string) string {
	return strings.TrimSuffix(name, EncryptedExt)
}
