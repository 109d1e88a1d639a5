package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	ID        string `json:"id"` // Unique per entry.
	Operation string `json:"op"` // Operation name.

	// Optional fields depending on operation.
	Path          string `json:"path,omitempty"`           // For add/remove.
	Stub          string `json:"stub,omitempty"`           // For stub-based add/remove.
	Encrypted     bool   `json:"encrypted,omitempty"`      // For add.
	ImportedCount int    `json:"imported_count,omitempty"` // For sync.
	ExportedCount int    `json:"exported_count,omitempty"` // For sync.
	RemovedCount  int    `json:"removed_count,omitempty"`  // For remove.
	Error         string `json:"error,omitempty"`          // For aborted operations.
}

// Log appends an entry to the audit log under the repository.
// If logging fails, the operation itself must not fail, so errors are
// swallowed here.
func Log(repoPath string, entry Entry) {
	if repoPath == "" {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	logPath := LogPath(repoPath)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the audit log file.
func LogPath(repoPath string) string {
	return filepath.Join(repoPath, ".dotsync", "audit.jsonl")
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(repoPath string) ([]Entry, error) {
	data, err := os.ReadFile(LogPath(repoPath))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1
			if len(line) == 0 {
				continue
			}
			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
