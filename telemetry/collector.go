package telemetry

import "github.com/pthm-cable/lenia/field"

// Collector counts events over fixed windows of ticks and produces a
// WindowStats when each window closes.
type Collector struct {
	windowTicks    int64
	aliveThreshold float64

	windowStartTick int64

	reseeds     int
	paintMerges int
}

// NewCollector creates a collector whose windows span windowTicks ticks.
func NewCollector(windowTicks int, aliveThreshold float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks:    int64(windowTicks),
		aliveThreshold: aliveThreshold,
	}
}

// RecordReseed records a reseed.
func (c *Collector) RecordReseed() {
	c.reseeds++
}

// RecordPaintMerge records an overlay merge.
func (c *Collector) RecordPaintMerge() {
	c.paintMerges++
}

// ShouldFlush reports whether the window ending at tick is complete.
func (c *Collector) ShouldFlush(tick int64) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush summarizes g for the window ending at tick and starts a new window.
func (c *Collector) Flush(tick int64, g *field.Grid, kernel, pattern string) WindowStats {
	s := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		Reseeds:         c.reseeds,
		PaintMerges:     c.paintMerges,
		Kernel:          kernel,
		Pattern:         pattern,
	}
	if g != nil {
		s.Width, s.Height = g.W, g.H
		s.setGrid(ComputeGridStats(g, c.aliveThreshold))
	}

	c.windowStartTick = tick
	c.reseeds = 0
	c.paintMerges = 0
	return s
}

// WindowTicks returns the window length.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
