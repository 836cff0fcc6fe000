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
	Timestamp string `json:"ts"`  // RFC3339 with microseconds.
	RunID     string `json:"run"` // UUID shared by all entries of one run.
	Operation string `json:"op"`  // Operation name.

	// Optional fields depending on operation.
	Stage       string `json:"stage,omitempty"`       // For plugin outcomes.
	Plugin      string `json:"plugin,omitempty"`      // For plugin outcomes.
	Outcome     string `json:"outcome,omitempty"`     // success, skipped, failed.
	Reason      string `json:"reason,omitempty"`      // For skips and failures.
	Workspace   string `json:"workspace,omitempty"`   // For run start/finish.
	FilesCount  int    `json:"files_count,omitempty"` // For archive confirmation.
	Destination string `json:"destination,omitempty"` // For publish outcomes.
}

// NewRunID returns the UUID that ties a run's entries together.
func NewRunID() string {
	return uuid.New().String()
}

// Log appends an entry to the audit trail at path. If logging fails it
// silently gives up; a backup must never fail because its audit trail did.
func Log(path string, entry Entry) {
	if path == "" {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
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
