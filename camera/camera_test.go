package camera

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestNew(t *testing.T) {
	v := New()
	if v.Zoom != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Errorf("expected zoom 1 and no pan, got %+v", *v)
	}

	// Identity mapping at zoom 1
	x, y := v.ScreenToSim(0.3, 0.8)
	if math.Abs(x-0.3) > eps || math.Abs(y-0.8) > eps {
		t.Errorf("expected (0.3, 0.8), got (%f, %f)", x, y)
	}
}

func TestScreenToSimRoundtrip(t *testing.T) {
	v := &Viewport{Zoom: 2.5, PanX: 0.2, PanY: -0.1}

	testCases := []struct{ sx, sy float64 }{
		{0.5, 0.5}, // center
		{0, 0},     // top-left
		{0.9, 0.2},
	}
	for _, tc := range testCases {
		x, y := v.ScreenToSim(tc.sx, tc.sy)
		sx, sy := v.SimToScreen(x, y)
		if math.Abs(sx-tc.sx) > eps || math.Abs(sy-tc.sy) > eps {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)", tc.sx, tc.sy, x, y, sx, sy)
		}
	}
}

func TestZoomClamp(t *testing.T) {
	v := New()
	for i := 0; i < 100; i++ {
		v.Wheel(0.5, 0.5, 1)
	}
	if v.Zoom != MaxZoom {
		t.Errorf("expected zoom clamped to %v, got %v", MaxZoom, v.Zoom)
	}
	for i := 0; i < 200; i++ {
		v.Wheel(0.5, 0.5, -1)
	}
	if v.Zoom != MinZoom {
		t.Errorf("expected zoom clamped to %v, got %v", MinZoom, v.Zoom)
	}
	if v.PanX != 0 || v.PanY != 0 {
		t.Errorf("zoomed out view should have no pan, got (%f, %f)", v.PanX, v.PanY)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	v := &Viewport{Zoom: 2}
	bx, by := v.ScreenToSim(0.6, 0.55)
	v.ZoomAt(0.6, 0.55, 1.5)
	ax, ay := v.ScreenToSim(0.6, 0.55)
	if math.Abs(ax-bx) > 1e-9 || math.Abs(ay-by) > 1e-9 {
		t.Errorf("cursor point drifted: (%f,%f) -> (%f,%f)", bx, by, ax, ay)
	}
}

func TestZoomInverseRestoresPan(t *testing.T) {
	v := &Viewport{Zoom: 2, PanX: 0.1, PanY: -0.05}
	start := *v

	v.ZoomAt(0.7, 0.3, 1.25)
	v.ZoomAt(0.7, 0.3, 1/1.25)

	if math.Abs(v.Zoom-start.Zoom) > 1e-9 {
		t.Errorf("zoom = %f, want %f", v.Zoom, start.Zoom)
	}
	if math.Abs(v.PanX-start.PanX) > 1e-9 || math.Abs(v.PanY-start.PanY) > 1e-9 {
		t.Errorf("pan = (%f,%f), want (%f,%f)", v.PanX, v.PanY, start.PanX, start.PanY)
	}
}

func TestPanClamp(t *testing.T) {
	tests := []struct {
		name    string
		zoom    float64
		dx      float64
		wantPan float64
	}{
		{"unzoomed cannot pan", 1, 300, 0},
		{"zoom 2 small drag", 2, 100, 100.0 / (800 * 2)},
		{"zoom 2 clamps", 2, 5000, 0.5},
		{"zoom 4 clamps left", 4, -1e6, -0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Viewport{Zoom: tt.zoom}
			v.PanBy(tt.dx, 0, 800, 600)
			if math.Abs(v.PanX-tt.wantPan) > eps {
				t.Errorf("PanX = %f, want %f", v.PanX, tt.wantPan)
			}
		})
	}
}

func TestMaxPan(t *testing.T) {
	tests := []struct{ zoom, want float64 }{
		{0.25, 0},
		{1, 0},
		{2, 0.5},
		{10, 0.9},
	}
	for _, tt := range tests {
		v := &Viewport{Zoom: tt.zoom}
		if got := v.MaxPan(); math.Abs(got-tt.want) > eps {
			t.Errorf("MaxPan(zoom=%v) = %f, want %f", tt.zoom, got, tt.want)
		}
	}
}

func TestReset(t *testing.T) {
	v := &Viewport{Zoom: 3, PanX: 0.4, PanY: 0.2}
	v.Reset()
	if v.Zoom != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Errorf("expected reset viewport, got %+v", *v)
	}
}
