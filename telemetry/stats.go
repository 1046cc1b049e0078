package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/lenia/field"
)

// WindowStats describes the field at the end of a telemetry window.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	Width  int `csv:"width"`
	Height int `csv:"height"`

	Mass      float64 `csv:"mass"`
	Mean      float64 `csv:"mean"`
	Std       float64 `csv:"std"`
	Max       float64 `csv:"max"`
	AliveFrac float64 `csv:"alive_frac"`
	P10       float64 `csv:"p10"`
	P50       float64 `csv:"p50"`
	P90       float64 `csv:"p90"`

	// Events during the window
	Reseeds     int `csv:"reseeds"`
	PaintMerges int `csv:"paint_merges"`

	Kernel  string `csv:"kernel"`
	Pattern string `csv:"pattern"`
}

// GridStats is the distribution summary of one grid.
type GridStats struct {
	Mass, Mean, Std, Max float64
	AliveFrac            float64
	P10, P50, P90        float64
}

// ComputeGridStats summarizes g. Cells strictly above aliveThreshold count
// as alive.
func ComputeGridStats(g *field.Grid, aliveThreshold float64) GridStats {
	if g == nil || len(g.Cells) == 0 {
		return GridStats{}
	}
	values := make([]float64, len(g.Cells))
	alive := 0
	for i, v := range g.Cells {
		values[i] = float64(v)
		if values[i] > aliveThreshold {
			alive++
		}
	}

	var s GridStats
	s.Mass = floats.Sum(values)
	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		s.Std = 0
	}
	s.Max = floats.Max(values)
	s.AliveFrac = float64(alive) / float64(len(values))

	slices.Sort(values)
	s.P10 = stat.Quantile(0.10, stat.Empirical, values, nil)
	s.P50 = stat.Quantile(0.50, stat.Empirical, values, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, values, nil)
	return s
}

func (s *WindowStats) setGrid(gs GridStats) {
	s.Mass, s.Mean, s.Std, s.Max = gs.Mass, gs.Mean, gs.Std, gs.Max
	s.AliveFrac = gs.AliveFrac
	s.P10, s.P50, s.P90 = gs.P10, gs.P50, gs.P90
}

// LogValue implements slog.LogValuer.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Float64("mass", s.Mass),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("max", s.Max),
		slog.Float64("alive_frac", s.AliveFrac),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Int("reseeds", s.Reseeds),
		slog.Int("paint_merges", s.PaintMerges),
		slog.String("kernel", s.Kernel),
		slog.String("pattern", s.Pattern),
	)
}

// LogStats logs the window at info level.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
