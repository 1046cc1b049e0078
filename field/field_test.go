package field

import (
	"math"
	"testing"
)

func TestNewGridRejectsEmpty(t *testing.T) {
	tests := []struct{ w, h int }{{0, 10}, {10, 0}, {-1, 5}}
	for _, tt := range tests {
		if g := NewGrid(tt.w, tt.h); g != nil {
			t.Errorf("NewGrid(%d, %d) = %+v, want nil", tt.w, tt.h, g)
		}
	}
}

func TestAtClampsToEdge(t *testing.T) {
	g := NewGrid(3, 2)
	for i := range g.Cells {
		g.Cells[i] = float32(i)
	}

	tests := []struct {
		x, y int
		want float32
	}{
		{0, 0, 0},
		{-5, 0, 0},
		{7, 0, 2},
		{1, -3, 1},
		{1, 9, 4},
		{-1, 9, 3},
		{9, 9, 5},
	}
	for _, tt := range tests {
		if got := g.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestOverlayMergeSaturates(t *testing.T) {
	dst := NewGrid(4, 4)
	dst.Cells[dst.Index(1, 1)] = 0.7
	dst.Cells[dst.Index(2, 2)] = 0.2

	ov := NewOverlay(4, 4)
	ov.Stamp(1, 1, 0.6)
	ov.Stamp(2, 2, 0.3)
	ov.Stamp(2, 2, 0.1) // lower stamp keeps the max
	ov.Stamp(-1, 0, 1)  // ignored

	if !ov.MergeInto(dst) {
		t.Fatal("expected merge to report work")
	}
	if got := dst.Cells[dst.Index(1, 1)]; got != 1 {
		t.Errorf("saturated cell = %v, want 1", got)
	}
	if got := dst.Cells[dst.Index(2, 2)]; math.Abs(float64(got)-0.5) > 1e-6 {
		t.Errorf("merged cell = %v, want 0.5", got)
	}
	if ov.Dirty() {
		t.Error("overlay still dirty after merge")
	}
	for i, v := range ov.Cells {
		if v != 0 {
			t.Fatalf("overlay cell %d = %v after merge, want 0", i, v)
		}
	}
	if ov.MergeInto(dst) {
		t.Error("second merge with nothing drawn should be a no-op")
	}
}

func TestPrecisionQuantizeIdempotent(t *testing.T) {
	values := []float32{0, 0.001, 0.15, 0.333333, 0.5, 0.987654, 1}
	for _, p := range []Precision{Float32, Float16, Uint8} {
		t.Run(p.String(), func(t *testing.T) {
			for _, v := range values {
				q := p.Quantize(v)
				if q2 := p.Quantize(q); q2 != q {
					t.Errorf("Quantize(Quantize(%v)) = %v, want %v", v, q2, q)
				}
				if math.Abs(float64(q-v)) > 1.0/255 {
					t.Errorf("Quantize(%v) = %v drifted too far", v, q)
				}
			}
		})
	}
}

func TestUint8QuantizeSteps(t *testing.T) {
	if got := Uint8.Quantize(0.5); math.Abs(float64(got)-128.0/255) > 1e-7 {
		t.Errorf("Uint8.Quantize(0.5) = %v, want 128/255", got)
	}
	if got := Uint8.Quantize(1.4); got != 1 {
		t.Errorf("Uint8.Quantize(1.4) = %v, want 1", got)
	}
}

func TestParsePrecision(t *testing.T) {
	tests := []struct {
		name    string
		high    bool
		want    Precision
		wantErr bool
	}{
		{"auto", true, Float32, false},
		{"auto", false, Float16, false},
		{"", true, Float32, false},
		{"uint8", true, Uint8, false},
		{"half", true, Float16, false},
		{"double", true, Float32, true},
	}
	for _, tt := range tests {
		got, err := ParsePrecision(tt.name, tt.high)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePrecision(%q) err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePrecision(%q, %v) = %v, want %v", tt.name, tt.high, got, tt.want)
		}
	}
}
