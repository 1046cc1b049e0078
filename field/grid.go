// Package field provides the dense cell buffers the simulation runs on.
package field

// Grid is a row-major W×H array of cell states in [0,1].
type Grid struct {
	W, H  int
	Cells []float32
}

// NewGrid allocates a zeroed grid. Non-positive sizes yield nil.
func NewGrid(w, h int) *Grid {
	if w <= 0 || h <= 0 {
		return nil
	}
	return &Grid{W: w, H: h, Cells: make([]float32, w*h)}
}

// Index returns the flat index of (x, y). The caller guarantees bounds.
func (g *Grid) Index(x, y int) int {
	return y*g.W + x
}

// In reports whether (x, y) lies inside the grid.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the cell at (x, y), clamping coordinates to the nearest edge.
func (g *Grid) At(x, y int) float32 {
	return g.Cells[clampInt(y, 0, g.H-1)*g.W+clampInt(x, 0, g.W-1)]
}

// Set writes v at (x, y). Out-of-range writes are dropped.
func (g *Grid) Set(x, y int, v float32) {
	if !g.In(x, y) {
		return
	}
	g.Cells[y*g.W+x] = v
}

// Clear zeroes every cell.
func (g *Grid) Clear() {
	clear(g.Cells)
}

// CopyFrom copies src into g. Sizes must match.
func (g *Grid) CopyFrom(src *Grid) {
	copy(g.Cells, src.Cells)
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, Cells: make([]float32, len(g.Cells))}
	copy(c.Cells, g.Cells)
	return c
}

// SameSize reports whether both grids have identical dimensions.
func (g *Grid) SameSize(o *Grid) bool {
	return o != nil && g.W == o.W && g.H == o.H
}

// Equal reports whether both grids have the same size and identical cells.
func (g *Grid) Equal(o *Grid) bool {
	if !g.SameSize(o) {
		return false
	}
	for i, v := range g.Cells {
		if o.Cells[i] != v {
			return false
		}
	}
	return true
}

// Mass returns the sum of all cell states.
func (g *Grid) Mass() float64 {
	var sum float64
	for _, v := range g.Cells {
		sum += float64(v)
	}
	return sum
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to [0,1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
