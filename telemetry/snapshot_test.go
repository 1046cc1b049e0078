package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:   SnapshotVersion,
		Seed:      42,
		Tick:      1000,
		Width:     3,
		Height:    2,
		Kernel:    "ring",
		Radius:    9,
		Pattern:   "orbium",
		Precision: "float32",
		Params:    map[string]any{"growthCenter": 0.2, "gridSize": 3},
		Cells:     []float32{0, 0.25, 0.5, 0.75, 1, 0.125},
		Bookmark:  &Bookmark{Type: BookmarkStable, Tick: 1000, Description: "test"},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_1000_stable.json" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Tick != 1000 || loaded.Kernel != "ring" || loaded.Radius != 9 {
		t.Errorf("header mismatch: %+v", loaded)
	}
	for i, v := range snapshot.Cells {
		if loaded.Cells[i] != v {
			t.Errorf("cell %d = %v, want %v", i, loaded.Cells[i], v)
		}
	}
	if loaded.Params["growthCenter"] != 0.2 {
		t.Errorf("params = %v", loaded.Params)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkStable {
		t.Error("bookmark lost")
	}
}

func TestLoadSnapshotRejectsMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	data := `{"version":1,"width":4,"height":4,"cells":[0,1]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); !errors.Is(err, ErrSnapshotMismatch) {
		t.Errorf("err = %v, want ErrSnapshotMismatch", err)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}
