package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrSnapshotMismatch is returned when a snapshot's cells don't match its size.
var ErrSnapshotMismatch = errors.New("snapshot cell count does not match dimensions")

// Snapshot holds enough state to resume a run: the field, the kernel and
// the parameter set in effect.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int64 `json:"tick"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Kernel    string `json:"kernel"`
	Radius    int    `json:"radius"`
	Pattern   string `json:"pattern"`
	Precision string `json:"precision"`

	Params map[string]any `json:"params"`

	Cells []float32 `json:"cells"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// Validate checks the snapshot's internal consistency.
func (s *Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	if s.Width <= 0 || s.Height <= 0 || len(s.Cells) != s.Width*s.Height {
		return fmt.Errorf("%w: %dx%d with %d cells", ErrSnapshotMismatch, s.Width, s.Height, len(s.Cells))
	}
	return nil
}

// SaveSnapshot writes a snapshot to dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads and validates a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
