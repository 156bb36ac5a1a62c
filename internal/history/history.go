/*
Package history persists the run history used for trend deltas: a short
window of past item counts per cluster key. It is the only state that
outlives a single invocation.
*/
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aidigest/internal/core"
)

const historyFileName = "run_history.json"

// Counts maps a cluster key to its recent item counts, oldest first.
// History is keyed by cluster key rather than cluster identity, so cluster
// configuration can evolve without losing trend continuity.
type Counts map[string][]int

// fileFormat is the on-disk shape of the history file.
type fileFormat struct {
	UpdatedAt time.Time `json:"updated_at"`
	Counts    Counts    `json:"counts"`
}

// Store reads and writes the run history file. Access is read-all-at-start,
// write-all-at-end; concurrent runs are not supported.
type Store struct {
	path string
}

// NewStore creates a store rooted in the given data directory.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, &core.HistoryStoreError{Op: "init", Err: fmt.Errorf("failed to create data directory %s: %w", dataDir, err)}
	}
	return &Store{path: filepath.Join(dataDir, historyFileName)}, nil
}

// Load reads all history. A missing file yields empty history; a corrupt or
// unreadable file yields a HistoryStoreError so the caller can degrade to
// treating every cluster as having no history.
func (s *Store) Load() (Counts, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Counts{}, nil
		}
		return Counts{}, &core.HistoryStoreError{Op: "read", Err: err}
	}

	var file fileFormat
	if err := json.Unmarshal(data, &file); err != nil {
		return Counts{}, &core.HistoryStoreError{Op: "decode", Err: err}
	}
	if file.Counts == nil {
		file.Counts = Counts{}
	}
	return file.Counts, nil
}

// Save writes all history back to disk.
func (s *Store) Save(counts Counts) error {
	file := fileFormat{UpdatedAt: time.Now().UTC(), Counts: counts}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return &core.HistoryStoreError{Op: "encode", Err: err}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &core.HistoryStoreError{Op: "write", Err: err}
	}
	return nil
}
