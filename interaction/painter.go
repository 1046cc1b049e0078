// Package interaction turns pointer input into overlay paint and viewport
// changes. Painting only touches the overlay; the engine folds it into the
// field at the start of the next frame.
package interaction

import (
	"image"
	"math"

	"github.com/pthm-cable/lenia/camera"
	"github.com/pthm-cable/lenia/field"
)

// maxInterpolate is the longest stroke segment, in cells, that is filled in.
// Longer jumps stamp only the new point.
const maxInterpolate = 30

// Mode is what a pointer press does.
type Mode int

const (
	ModeDraw Mode = iota
	ModePan
)

// Canvas is the on-screen drawing surface in pixels.
type Canvas struct {
	W, H float64
}

func (c Canvas) valid() bool { return c.W > 0 && c.H > 0 }

// Brush is the radial stamp shape.
type Brush struct {
	Size      int
	Intensity float64
}

// Painter tracks a single pointer's stroke or drag.
type Painter struct {
	viewport *camera.Viewport

	drawing bool
	panning bool

	hasLast bool
	lastX   int
	lastY   int

	panX, panY float64
}

// NewPainter returns a painter that maps pointer positions through vp.
func NewPainter(vp *camera.Viewport) *Painter {
	return &Painter{viewport: vp}
}

// Drawing reports whether a paint stroke is active.
func (p *Painter) Drawing() bool { return p.drawing }

// Panning reports whether a pan drag is active.
func (p *Painter) Panning() bool { return p.panning }

// PointerDown starts a stroke or a pan drag at pixel (px, py).
func (p *Painter) PointerDown(px, py float64, mode Mode, c Canvas, ov *field.Overlay, b Brush) {
	switch mode {
	case ModePan:
		p.panning = true
		p.panX, p.panY = px, py
	default:
		p.drawing = true
		p.hasLast = false
		p.draw(px, py, c, ov, b)
	}
}

// PointerMove extends the active stroke or pan drag.
func (p *Painter) PointerMove(px, py float64, c Canvas, ov *field.Overlay, b Brush) {
	if p.panning {
		p.viewport.PanBy(px-p.panX, py-p.panY, c.W, c.H)
		p.panX, p.panY = px, py
	}
	if p.drawing {
		p.draw(px, py, c, ov, b)
	}
}

// PointerUp ends any stroke or drag.
func (p *Painter) PointerUp() {
	p.drawing = false
	p.panning = false
	p.hasLast = false
}

// Wheel zooms by notches around the pointer.
func (p *Painter) Wheel(px, py, notches float64, c Canvas) {
	if !c.valid() || notches == 0 {
		return
	}
	p.viewport.Wheel(px/c.W, py/c.H, notches)
}

func (p *Painter) draw(px, py float64, c Canvas, ov *field.Overlay, b Brush) {
	if ov == nil {
		return
	}
	x, y, ok := CellAt(p.viewport, px, py, c, ov.W, ov.H)
	if !ok {
		return
	}
	if p.hasLast {
		for _, pt := range StrokePoints(p.lastX, p.lastY, x, y) {
			Stamp(ov, pt.X, pt.Y, b)
		}
	} else {
		Stamp(ov, x, y, b)
	}
	p.lastX, p.lastY = x, y
	p.hasLast = true
}

// CellAt maps pixel (px, py) on canvas c to a cell of a w×h grid. ok is false
// when the point falls outside the grid.
func CellAt(vp *camera.Viewport, px, py float64, c Canvas, w, h int) (x, y int, ok bool) {
	if !c.valid() {
		return 0, 0, false
	}
	sx, sy := vp.ScreenToSim(px/c.W, py/c.H)
	x = int(math.Floor(sx * float64(w)))
	y = int(math.Floor(sy * float64(h)))
	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, 0, false
	}
	return x, y, true
}

// StrokePoints returns the cells to stamp when a stroke moves from (x0, y0)
// to (x1, y1). Short segments are filled in; long jumps yield just the end.
func StrokePoints(x0, y0, x1, y1 int) []image.Point {
	dx := float64(x1 - x0)
	dy := float64(y1 - y0)
	dist := math.Hypot(dx, dy)
	if dist >= maxInterpolate {
		return []image.Point{{X: x1, Y: y1}}
	}
	steps := max(1, int(math.Ceil(dist)))
	pts := make([]image.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, image.Point{
			X: int(roundHalfUp(float64(x0) + dx*t)),
			Y: int(roundHalfUp(float64(y0) + dy*t)),
		})
	}
	return pts
}

// roundHalfUp rounds .5 towards +Inf, matching screen-space pixel snapping.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Stamp paints a radial brush centered on cell (x, y). The value falls off
// linearly from b.Intensity at the center to zero at b.Size cells.
func Stamp(ov *field.Overlay, x, y int, b Brush) {
	if b.Size < 1 || b.Intensity <= 0 {
		return
	}
	bs := float64(b.Size)
	for cy := y - b.Size; cy < y+b.Size; cy++ {
		for cx := x - b.Size; cx < x+b.Size; cx++ {
			d := math.Hypot(float64(cx-x)+0.5, float64(cy-y)+0.5)
			v := b.Intensity * max(0, 1-d/bs)
			if v > 0 {
				ov.Stamp(cx, cy, float32(v))
			}
		}
	}
}
