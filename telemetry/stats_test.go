package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/lenia/field"
)

func rampGrid() *field.Grid {
	g := field.NewGrid(10, 1)
	for i := range g.Cells {
		g.Cells[i] = float32(i+1) / 10
	}
	return g
}

func TestComputeGridStats(t *testing.T) {
	s := ComputeGridStats(rampGrid(), 0.25)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"mass", s.Mass, 5.5},
		{"mean", s.Mean, 0.55},
		{"max", s.Max, 1.0},
		{"alive_frac", s.AliveFrac, 0.8},
		{"p10", s.P10, 0.1},
		{"p50", s.P50, 0.5},
		{"p90", s.P90, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-5 {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
	if s.Std <= 0 {
		t.Errorf("std = %v, want positive", s.Std)
	}
}

func TestComputeGridStatsEdgeCases(t *testing.T) {
	if s := ComputeGridStats(nil, 0.1); s != (GridStats{}) {
		t.Errorf("nil grid stats = %+v, want zero", s)
	}

	one := field.NewGrid(1, 1)
	one.Cells[0] = 0.4
	s := ComputeGridStats(one, 0.1)
	if s.Std != 0 || s.Mass != float64(float32(0.4)) || s.AliveFrac != 1 {
		t.Errorf("single cell stats = %+v", s)
	}

	empty := field.NewGrid(4, 4)
	s = ComputeGridStats(empty, 0.1)
	if s.Mass != 0 || s.AliveFrac != 0 || s.P90 != 0 {
		t.Errorf("empty grid stats = %+v", s)
	}
}

func TestCollectorWindows(t *testing.T) {
	c := NewCollector(10, 0.25)
	if c.ShouldFlush(9) {
		t.Error("window flushed early")
	}
	if !c.ShouldFlush(10) {
		t.Error("window did not flush at its end")
	}

	c.RecordReseed()
	c.RecordPaintMerge()
	c.RecordPaintMerge()
	w := c.Flush(10, rampGrid(), "gaussian", "orbium")

	if w.WindowStartTick != 0 || w.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d]", w.WindowStartTick, w.WindowEndTick)
	}
	if w.Reseeds != 1 || w.PaintMerges != 2 {
		t.Errorf("events = %d reseeds, %d merges", w.Reseeds, w.PaintMerges)
	}
	if w.Width != 10 || w.Height != 1 || math.Abs(w.Mass-5.5) > 1e-5 {
		t.Errorf("grid summary = %dx%d mass %v", w.Width, w.Height, w.Mass)
	}

	next := c.Flush(20, nil, "gaussian", "orbium")
	if next.WindowStartTick != 10 || next.Reseeds != 0 || next.PaintMerges != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if c.ShouldFlush(25) {
		t.Error("new window flushed early")
	}
}
