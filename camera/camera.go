// Package camera provides the zoom/pan viewport over the simulation field.
//
// Screen and simulation coordinates are both normalized: (0,0) is the top-left
// corner and (1,1) the bottom-right. The grid occupies [0,1]² in simulation
// space; anything outside it is off-grid.
package camera

// Zoom limits.
const (
	MinZoom = 0.25
	MaxZoom = 10.0

	// WheelStep is the zoom change per wheel notch.
	WheelStep = 0.1
)

// Viewport is the camera state: a zoom factor and a pan offset in
// simulation units.
type Viewport struct {
	Zoom       float64
	PanX, PanY float64
}

// New returns an unzoomed, centered viewport.
func New() *Viewport {
	return &Viewport{Zoom: 1}
}

// ScreenToSim maps a normalized screen point to simulation space.
func (v *Viewport) ScreenToSim(sx, sy float64) (x, y float64) {
	x = (sx-0.5)/v.Zoom + 0.5 - v.PanX
	y = (sy-0.5)/v.Zoom + 0.5 - v.PanY
	return x, y
}

// SimToScreen is the inverse of ScreenToSim.
func (v *Viewport) SimToScreen(x, y float64) (sx, sy float64) {
	sx = (x+v.PanX-0.5)*v.Zoom + 0.5
	sy = (y+v.PanY-0.5)*v.Zoom + 0.5
	return sx, sy
}

// MaxPan is the largest |pan| that keeps part of the grid in view.
func (v *Viewport) MaxPan() float64 {
	return max(0, 1-1/v.Zoom)
}

// ZoomAt scales the zoom by factor while keeping the simulation point under
// the normalized screen point (sx, sy) fixed, as far as the pan clamp allows.
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	if factor <= 0 {
		return
	}
	bx, by := v.ScreenToSim(sx, sy)
	v.Zoom = clamp(v.Zoom*factor, MinZoom, MaxZoom)
	ax, ay := v.ScreenToSim(sx, sy)
	v.PanX += ax - bx
	v.PanY += ay - by
	v.clampPan()
}

// Wheel applies notches of mouse-wheel zoom at (sx, sy). Positive notches zoom in.
func (v *Viewport) Wheel(sx, sy, notches float64) {
	v.ZoomAt(sx, sy, 1+WheelStep*notches)
}

// PanBy shifts the view by a pixel drag on a canvas of canvasW×canvasH pixels.
func (v *Viewport) PanBy(dxPx, dyPx, canvasW, canvasH float64) {
	if canvasW <= 0 || canvasH <= 0 {
		return
	}
	v.PanX += dxPx / (canvasW * v.Zoom)
	v.PanY += dyPx / (canvasH * v.Zoom)
	v.clampPan()
}

// Reset restores zoom 1 and no pan.
func (v *Viewport) Reset() {
	v.Zoom = 1
	v.PanX, v.PanY = 0, 0
}

func (v *Viewport) clampPan() {
	m := v.MaxPan()
	v.PanX = clamp(v.PanX, -m, m)
	v.PanY = clamp(v.PanY, -m, m)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
