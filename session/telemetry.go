package session

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/lenia/field"
	"github.com/pthm-cable/lenia/kernels"
	"github.com/pthm-cable/lenia/patterns"
	"github.com/pthm-cable/lenia/settings"
	"github.com/pthm-cable/lenia/telemetry"
)

// flushTelemetry closes the stats window when it is due, then handles the
// bookmarks it triggers.
func (s *Session) flushTelemetry() {
	tick := s.Tick()
	if !s.collector.ShouldFlush(tick) {
		return
	}

	stats := s.collector.Flush(tick, s.engine.Current(), string(s.Kernel()), string(s.Pattern()))
	perfStats := s.perf.Stats()
	s.lastStats = stats
	s.massHistory = append(s.massHistory, stats.Mass)
	if len(s.massHistory) > historyCap {
		s.massHistory = s.massHistory[len(s.massHistory)-historyCap:]
	}

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}
	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}
	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if s.output != nil {
			s.saveSnapshot(&bm)
		}
	}
}

// Snapshot captures the field, kernel and parameters for later restore.
func (s *Session) Snapshot(bm *telemetry.Bookmark) *telemetry.Snapshot {
	g := s.engine.Current()
	prog := s.engine.Program()
	return &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		Seed:      s.cfg.Engine.Seed,
		Tick:      s.Tick(),
		Width:     g.W,
		Height:    g.H,
		Kernel:    string(prog.Kernel),
		Radius:    prog.Radius,
		Pattern:   string(s.engine.Pattern()),
		Precision: s.engine.Precision().String(),
		Params:    s.store.Snapshot(),
		Cells:     append([]float32(nil), g.Cells...),
		Bookmark:  bm,
	}
}

// SaveSnapshot writes a snapshot to the output directory and returns its
// path. It fails when output is disabled.
func (s *Session) SaveSnapshot() (string, error) {
	if s.output == nil {
		return "", fmt.Errorf("save snapshot: output directory not set")
	}
	return s.output.WriteSnapshot(s.Snapshot(nil))
}

func (s *Session) saveSnapshot(bm *telemetry.Bookmark) {
	path, err := s.output.WriteSnapshot(s.Snapshot(bm))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", s.Tick())
}

// Restore applies a snapshot's parameters and loads its field. Parameters
// the store rejects are skipped with a warning.
func (s *Session) Restore(snap *telemetry.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	for _, key := range settings.Keys() {
		v, ok := snap.Params[key]
		if !ok {
			continue
		}
		if err := s.store.Set(key, v); err != nil {
			slog.Warn("snapshot parameter skipped", "key", key, "error", err)
		}
	}
	s.engine.ChangeKernel(kernels.ID(snap.Kernel), snap.Radius)

	g := field.NewGrid(snap.Width, snap.Height)
	copy(g.Cells, snap.Cells)
	if err := s.engine.Load(g); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	s.engine.SetPattern(patterns.ID(snap.Pattern))
	// The grid already has the snapshot's dimensions.
	s.resizePending = false
	s.bookmarks.Reset()
	return nil
}

// LoadSnapshot reads a snapshot file and restores it.
func (s *Session) LoadSnapshot(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	return s.Restore(snap)
}
