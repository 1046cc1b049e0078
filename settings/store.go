package settings

import (
	"fmt"
	"log/slog"
	"maps"
	"sort"
)

// Change describes one applied mutation.
type Change struct {
	Key      string
	Old, New any
}

// Backend loads and saves the flat key/value record.
type Backend interface {
	Load() (map[string]any, error)
	Save(values map[string]any) error
}

// Store is the single owner of the parameter set. It is not safe for
// concurrent mutation; persistence runs on its own goroutine.
type Store struct {
	values    map[string]any
	extras    map[string]any // unknown keys read from the backend, written back untouched
	observers []func(Change)

	backend Backend
	pending chan map[string]any
	done    chan struct{}
	closed  bool
}

// Open loads the record from backend, backfilling missing or invalid keys
// from defaults. Load failures are logged and leave the defaults in place.
func Open(backend Backend) *Store {
	s := &Store{
		values:  defaultValues(),
		extras:  make(map[string]any),
		backend: backend,
		pending: make(chan map[string]any, 1),
		done:    make(chan struct{}),
	}

	backfilled := s.load()
	go s.writer()
	if backfilled {
		s.persist()
	}
	return s
}

func (s *Store) load() (backfilled bool) {
	if s.backend == nil {
		return false
	}
	raw, err := s.backend.Load()
	if err != nil {
		slog.Warn("settings load failed, using defaults", "error", err)
		return false
	}
	if raw == nil {
		return true
	}
	for key, v := range raw {
		spec, ok := specByKey[key]
		if !ok {
			s.extras[key] = v
			continue
		}
		cv, err := spec.coerce(v)
		if err != nil {
			slog.Warn("settings value rejected, using default", "key", key, "error", err)
			backfilled = true
			continue
		}
		s.values[key] = cv
	}
	for _, spec := range specs {
		if _, ok := raw[spec.key]; !ok {
			backfilled = true
		}
	}
	return backfilled
}

// Params returns a typed snapshot of the current values.
func (s *Store) Params() Params {
	return paramsFrom(s.values)
}

// Get returns the current value of key. Unknown keys persisted by other
// tools are reported too.
func (s *Store) Get(key string) (any, bool) {
	if v, ok := s.values[key]; ok {
		return v, true
	}
	v, ok := s.extras[key]
	return v, ok
}

// Extras returns the unknown keys carried through from the backend.
func (s *Store) Extras() map[string]any {
	return maps.Clone(s.extras)
}

// Subscribe registers fn to run after every applied change, in registration order.
func (s *Store) Subscribe(fn func(Change)) {
	s.observers = append(s.observers, fn)
}

// Set validates and applies one parameter. Setting a key to its current
// value is a no-op: observers are not called and nothing is written.
func (s *Store) Set(key string, value any) error {
	spec, ok := specByKey[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	cv, err := spec.coerce(value)
	if err != nil {
		return err
	}
	old := s.values[key]
	if old == cv {
		return nil
	}
	s.values[key] = cv
	s.notify(Change{Key: key, Old: old, New: cv})
	s.persist()
	return nil
}

// Apply sets several keys, stopping at the first error. Keys are applied
// in sorted order so observers see a stable sequence.
func (s *Store) Apply(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// ResetToDefaults restores every key to its default.
func (s *Store) ResetToDefaults() {
	changed := false
	for _, spec := range specs {
		old := s.values[spec.key]
		if old == spec.def {
			continue
		}
		s.values[spec.key] = spec.def
		s.notify(Change{Key: spec.key, Old: old, New: spec.def})
		changed = true
	}
	if changed {
		s.persist()
	}
}

// Snapshot returns the full record as written to the backend.
func (s *Store) Snapshot() map[string]any {
	out := maps.Clone(s.extras)
	if out == nil {
		out = make(map[string]any, len(s.values))
	}
	maps.Copy(out, s.values)
	return out
}

func (s *Store) notify(c Change) {
	for _, fn := range s.observers {
		fn(c)
	}
}

// persist hands the latest snapshot to the writer without blocking. An
// unwritten older snapshot is replaced.
func (s *Store) persist() {
	if s.closed || s.backend == nil {
		return
	}
	snap := s.Snapshot()
	select {
	case s.pending <- snap:
	default:
		select {
		case <-s.pending:
		default:
		}
		s.pending <- snap
	}
}

func (s *Store) writer() {
	defer close(s.done)
	for snap := range s.pending {
		if s.backend == nil {
			continue
		}
		if err := s.backend.Save(snap); err != nil {
			slog.Warn("settings save failed", "error", err)
		}
	}
}

// Close flushes the pending write and stops the writer.
func (s *Store) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.pending)
	<-s.done
}
