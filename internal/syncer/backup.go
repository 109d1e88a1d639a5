package syncer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dotsync/dotsync/internal/configs"
	"github.com/dotsync/dotsync/internal/mirror"
)

// backupStep snapshots the current home-side content of every tracked,
// existing, non-directory entry into a fresh timestamped directory under
// the backup root. Snapshots are always plaintext, even for encrypted
// entries, so emergency recovery never requires the key. Returns whether
// anything was backed up; an empty snapshot directory is removed.
func (e *Engine) backupStep(entries []configs.TrackedEntry) (bool, error) {
	stamp := time.Now().Format("20060102_150405")
	snapshotDir := filepath.Join(e.RepoPath, BackupDirName, stamp)

	backedUp := false
	for _, entry := range entries {
		home := e.homePath(entry)
		if !mirror.Exists(home) || mirror.IsDir(home) {
			continue
		}
		dst := filepath.Join(snapshotDir, mirror.RepoRelative(entry.Path))
		if err := mirror.SyncFile(home, dst); err != nil {
			return backedUp, fmt.Errorf("backing up %s: %w", entry.Path, err)
		}
		backedUp = true
	}

	if !backedUp {
		os.RemoveAll(snapshotDir)
	}
	return backedUp, nil
}
