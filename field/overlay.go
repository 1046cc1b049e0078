package field

// Overlay accumulates user-drawn intensity until it is merged into the
// live grid. The dirty flag is raised by Stamp and dropped by MergeInto.
type Overlay struct {
	Grid
	dirty bool
}

// NewOverlay allocates an empty overlay matching w×h.
func NewOverlay(w, h int) *Overlay {
	g := NewGrid(w, h)
	if g == nil {
		return nil
	}
	return &Overlay{Grid: *g}
}

// Dirty reports whether anything was stamped since the last merge or reset.
func (o *Overlay) Dirty() bool {
	return o.dirty
}

// Stamp raises (x, y) to at least v. Out-of-range or non-positive values are ignored.
func (o *Overlay) Stamp(x, y int, v float32) {
	if v <= 0 || !o.In(x, y) {
		return
	}
	i := o.Index(x, y)
	if v > o.Cells[i] {
		o.Cells[i] = v
	}
	o.dirty = true
}

// Reset clears the overlay without merging.
func (o *Overlay) Reset() {
	if o.dirty {
		o.Clear()
	}
	o.dirty = false
}

// MergeInto adds every overlay cell into dst, saturating at 1, then clears
// the overlay. It returns false without touching dst when nothing was drawn.
func (o *Overlay) MergeInto(dst *Grid) bool {
	if !o.dirty {
		return false
	}
	if dst.SameSize(&o.Grid) {
		for i, v := range o.Cells {
			if v > 0 {
				dst.Cells[i] = Clamp01(dst.Cells[i] + v)
			}
		}
	}
	o.Clear()
	o.dirty = false
	return true
}
