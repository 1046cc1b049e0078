package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileBackend persists the record as a flat YAML map.
type FileBackend struct {
	Path string
}

// Load reads the record. A missing file yields (nil, nil).
func (b FileBackend) Load() (map[string]any, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", b.Path, err)
	}
	return values, nil
}

// Save writes the record through a temp file so a crash never leaves a
// truncated settings file behind.
func (b FileBackend) Save(values map[string]any) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if dir := filepath.Dir(b.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}
	tmp := b.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, b.Path); err != nil {
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

// MemoryBackend keeps the record in memory. Safe for concurrent use.
type MemoryBackend struct {
	mu    sync.Mutex
	data  map[string]any
	saves int
}

// NewMemoryBackend returns a backend preloaded with initial (may be nil).
func NewMemoryBackend(initial map[string]any) *MemoryBackend {
	return &MemoryBackend{data: maps.Clone(initial)}
}

func (b *MemoryBackend) Load() (map[string]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.data), nil
}

func (b *MemoryBackend) Save(values map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = maps.Clone(values)
	b.saves++
	return nil
}

// Data returns the last saved record.
func (b *MemoryBackend) Data() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.data)
}

// Saves counts completed writes.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// ExportProfile writes the current parameters to path as YAML.
func (s *Store) ExportProfile(path string) error {
	return FileBackend{Path: path}.Save(s.Snapshot())
}

// ImportProfile applies every known key found in the YAML file at path.
// Unknown keys in the profile are ignored.
func (s *Store) ImportProfile(path string) error {
	raw, err := FileBackend{Path: path}.Load()
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("profile %s: %w", path, fs.ErrNotExist)
	}
	known := make(map[string]any, len(raw))
	for k, v := range raw {
		if _, ok := specByKey[k]; ok {
			known[k] = v
		}
	}
	return s.Apply(known)
}
