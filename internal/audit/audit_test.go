package audit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLog_CreatesFileAndAppends(t *testing.T) {
	repo := t.TempDir()

	Log(repo, Entry{Operation: "add", Path: "~/.vimrc"})
	Log(repo, Entry{Operation: "sync", ImportedCount: 2, ExportedCount: 1})

	logPath := filepath.Join(repo, ".dotsync", "audit.jsonl")
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("audit log was not created: %v", err)
	}

	entries, err := ReadEntries(repo)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Operation != "add" || entries[0].Path != "~/.vimrc" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].ImportedCount != 2 {
		t.Errorf("unexpected sync entry: %+v", entries[1])
	}
	if entries[0].Timestamp == "" || entries[0].ID == "" {
		t.Errorf("timestamp and id should be populated: %+v", entries[0])
	}
}

func TestReadEntries_MissingLog(t *testing.T) {
	entries, err := ReadEntries(t.TempDir())
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries, got %v", entries)
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"op":"add","path":"~/.vimrc"}
not json
{"op":"remove","path":"~/.vimrc"}
`)
	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Operation != "remove" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}
