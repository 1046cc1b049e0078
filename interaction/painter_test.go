package interaction

import (
	"image"
	"math"
	"testing"

	"github.com/pthm-cable/lenia/camera"
	"github.com/pthm-cable/lenia/field"
)

var canvas = Canvas{W: 400, H: 400}

func TestCellAt(t *testing.T) {
	vp := camera.New()
	tests := []struct {
		name   string
		px, py float64
		wantX  int
		wantY  int
		wantOK bool
	}{
		{"top-left", 0, 0, 0, 0, true},
		{"center", 200, 200, 50, 50, true},
		{"last cell", 399, 399, 99, 99, true},
		{"right edge", 400, 10, 0, 0, false},
		{"negative", -1, 10, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := CellAt(vp, tt.px, tt.py, canvas, 100, 100)
			if ok != tt.wantOK || (ok && (x != tt.wantX || y != tt.wantY)) {
				t.Errorf("CellAt(%v,%v) = (%d,%d,%v), want (%d,%d,%v)",
					tt.px, tt.py, x, y, ok, tt.wantX, tt.wantY, tt.wantOK)
			}
		})
	}
}

func TestCellAtZoomed(t *testing.T) {
	vp := &camera.Viewport{Zoom: 2}
	// At zoom 2 the canvas shows the middle half of the grid.
	x, y, ok := CellAt(vp, 0, 0, canvas, 100, 100)
	if !ok || x != 25 || y != 25 {
		t.Errorf("zoomed corner = (%d,%d,%v), want (25,25,true)", x, y, ok)
	}

	out := &camera.Viewport{Zoom: 0.5}
	if _, _, ok := CellAt(out, 10, 10, canvas, 100, 100); ok {
		t.Error("point outside the zoomed-out grid should be ignored")
	}
}

func TestStrokePoints(t *testing.T) {
	tests := []struct {
		name string
		x0   int
		y0   int
		x1   int
		y1   int
		want []image.Point
	}{
		{"same cell", 3, 3, 3, 3, []image.Point{{3, 3}, {3, 3}}},
		{"horizontal", 0, 0, 3, 0, []image.Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"long jump", 0, 0, 40, 0, []image.Point{{40, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StrokePoints(tt.x0, tt.y0, tt.x1, tt.y1)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStrokePointsDiagonalIsContiguous(t *testing.T) {
	pts := StrokePoints(2, 5, 14, 11)
	if pts[0] != (image.Point{2, 5}) || pts[len(pts)-1] != (image.Point{14, 11}) {
		t.Fatalf("endpoints = %v, %v", pts[0], pts[len(pts)-1])
	}
	for i := 1; i < len(pts); i++ {
		dx := pts[i].X - pts[i-1].X
		dy := pts[i].Y - pts[i-1].Y
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
			t.Errorf("gap between %v and %v", pts[i-1], pts[i])
		}
	}
}

func TestStampFalloff(t *testing.T) {
	ov := field.NewOverlay(40, 40)
	Stamp(ov, 20, 20, Brush{Size: 5, Intensity: 0.8})

	center := ov.At(20, 20)
	want := 0.8 * (1 - math.Hypot(0.5, 0.5)/5)
	if math.Abs(float64(center)-want) > 1e-6 {
		t.Errorf("center = %v, want %v", center, want)
	}
	if ov.At(24, 20) >= center {
		t.Error("brush does not fall off with distance")
	}
	if ov.At(26, 20) != 0 || ov.At(14, 20) != 0 {
		t.Error("brush painted outside its square")
	}
	for _, v := range ov.Cells {
		if v < 0 || v > 0.8 {
			t.Fatalf("brush value %v outside [0, intensity]", v)
		}
	}
}

func TestStampKeepsMaximum(t *testing.T) {
	ov := field.NewOverlay(20, 20)
	Stamp(ov, 10, 10, Brush{Size: 4, Intensity: 1})
	strong := ov.At(10, 10)
	Stamp(ov, 10, 10, Brush{Size: 4, Intensity: 0.2})
	if ov.At(10, 10) != strong {
		t.Errorf("weaker stamp lowered the overlay: %v -> %v", strong, ov.At(10, 10))
	}
}

func TestStampNearEdgeStaysInBounds(t *testing.T) {
	ov := field.NewOverlay(10, 10)
	Stamp(ov, 0, 9, Brush{Size: 6, Intensity: 1})
	if !ov.Dirty() {
		t.Error("edge stamp painted nothing")
	}
}

func TestStrokeNeverDecreasesCells(t *testing.T) {
	vp := camera.New()
	p := NewPainter(vp)
	ov := field.NewOverlay(100, 100)
	grid := field.NewGrid(100, 100)
	for i := range grid.Cells {
		grid.Cells[i] = float32(i%7) / 7
	}
	before := grid.Clone()

	b := Brush{Size: 6, Intensity: 0.9}
	p.PointerDown(40, 40, ModeDraw, canvas, ov, b)
	p.PointerMove(60, 52, canvas, ov, b)
	p.PointerMove(120, 80, canvas, ov, b)
	p.PointerUp()

	if !ov.MergeInto(grid) {
		t.Fatal("stroke left the overlay clean")
	}
	changed := false
	for i, v := range grid.Cells {
		if v < before.Cells[i] {
			t.Fatalf("cell %d decreased: %v -> %v", i, before.Cells[i], v)
		}
		if v > 1 {
			t.Fatalf("cell %d = %v exceeds 1", i, v)
		}
		if v != before.Cells[i] {
			changed = true
		}
	}
	if !changed {
		t.Error("merge changed nothing")
	}
	if ov.Dirty() {
		t.Error("overlay dirty after merge")
	}
}

func TestMoveWithoutDownIsIgnored(t *testing.T) {
	p := NewPainter(camera.New())
	ov := field.NewOverlay(50, 50)
	p.PointerMove(100, 100, canvas, ov, Brush{Size: 3, Intensity: 1})
	if ov.Dirty() {
		t.Error("move without pointer down painted")
	}
}

func TestPanDrag(t *testing.T) {
	vp := &camera.Viewport{Zoom: 2}
	p := NewPainter(vp)
	ov := field.NewOverlay(50, 50)
	b := Brush{Size: 3, Intensity: 1}

	p.PointerDown(100, 100, ModePan, canvas, ov, b)
	p.PointerMove(140, 80, canvas, ov, b)
	p.PointerUp()

	if math.Abs(vp.PanX-40.0/(400*2)) > 1e-9 || math.Abs(vp.PanY+20.0/(400*2)) > 1e-9 {
		t.Errorf("pan = (%f,%f)", vp.PanX, vp.PanY)
	}
	if ov.Dirty() {
		t.Error("pan drag painted")
	}
	if p.Panning() {
		t.Error("still panning after pointer up")
	}
}

func TestWheelZoomsAtPointer(t *testing.T) {
	vp := camera.New()
	p := NewPainter(vp)
	p.Wheel(200, 200, 3, canvas)
	if math.Abs(vp.Zoom-1.3) > 1e-9 {
		t.Errorf("zoom = %f, want 1.3", vp.Zoom)
	}
	p.Wheel(200, 200, 1, Canvas{})
	if math.Abs(vp.Zoom-1.3) > 1e-9 {
		t.Error("wheel on an empty canvas changed zoom")
	}
}
