package patterns

import (
	"math"
	"math/rand"
	"testing"
)

func TestGenerateContract(t *testing.T) {
	sizes := []struct{ w, h int }{{100, 100}, {64, 40}, {7, 9}, {1, 1}}
	for _, id := range IDs() {
		for _, sz := range sizes {
			g, got := Generate(id, sz.w, sz.h, rand.New(rand.NewSource(1)), Options{})
			if got != id {
				t.Errorf("Generate(%s) produced %s", id, got)
			}
			if g == nil || g.W != sz.w || g.H != sz.h || len(g.Cells) != sz.w*sz.h {
				t.Fatalf("Generate(%s, %d, %d) returned wrong shape", id, sz.w, sz.h)
			}
			for i, v := range g.Cells {
				if v < 0 || v > 1 || math.IsNaN(float64(v)) {
					t.Fatalf("Generate(%s) cell %d = %v out of [0,1]", id, i, v)
				}
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, id := range IDs() {
		a, _ := Generate(id, 80, 60, rand.New(rand.NewSource(99)), Options{})
		b, _ := Generate(id, 80, 60, rand.New(rand.NewSource(99)), Options{})
		if !a.Equal(b) {
			t.Errorf("Generate(%s) differs for identical seeds", id)
		}
	}
}

func TestGenerateUnknownFallsBack(t *testing.T) {
	g, got := Generate("blob", 10, 10, rand.New(rand.NewSource(1)), Options{})
	if got != Random {
		t.Errorf("fallback id = %s, want random", got)
	}
	if g == nil {
		t.Fatal("fallback grid is nil")
	}
}

func TestGenerateRejectsEmpty(t *testing.T) {
	if g, _ := Generate(Orbium, 0, 10, rand.New(rand.NewSource(1)), Options{}); g != nil {
		t.Error("expected nil grid for zero width")
	}
}

func TestOrbiumCentered(t *testing.T) {
	g, _ := Generate(Orbium, 100, 100, rand.New(rand.NewSource(1)), Options{})

	// 8x8 template at scale 3 covers [38, 62) on both axes.
	if v := g.At(50, 50); v != 1 {
		t.Errorf("center cell = %v, want 1", v)
	}
	if v := g.At(38, 47); math.Abs(float64(v)-85.0/255) > 1e-6 {
		t.Errorf("left edge cell = %v, want 85/255", v)
	}
	if v := g.At(37, 50); v != 0 {
		t.Errorf("cell outside template = %v, want 0", v)
	}
	if v := g.At(62, 50); v != 0 {
		t.Errorf("cell outside template = %v, want 0", v)
	}

	want := 0.0
	for _, row := range orbium {
		for _, v := range row {
			want += float64(v) / 255 * templateScale * templateScale
		}
	}
	if m := g.Mass(); math.Abs(m-want) > 1e-3 {
		t.Errorf("mass = %v, want %v", m, want)
	}
}

func TestRandomDensity(t *testing.T) {
	g, _ := Generate(Random, 200, 200, rand.New(rand.NewSource(5)), Options{Density: 0.5})
	alive := 0
	for _, v := range g.Cells {
		if v > 0 {
			alive++
			if v < 75.0/255-1e-6 {
				t.Fatalf("alive cell %v below minimum intensity", v)
			}
		}
	}
	frac := float64(alive) / float64(len(g.Cells))
	if math.Abs(frac-0.5) > 0.02 {
		t.Errorf("alive fraction = %v, want ~0.5", frac)
	}
}

func TestSpiralStaysInsideRadius(t *testing.T) {
	g, _ := Generate(Spiral, 120, 120, rand.New(rand.NewSource(1)), Options{})
	maxR := 120.0 / 6
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if math.Hypot(float64(x)-60, float64(y)-60) > maxR && g.At(x, y) != 0 {
				t.Fatalf("spiral cell (%d,%d) outside radius is %v", x, y, g.At(x, y))
			}
		}
	}
	if g.Mass() == 0 {
		t.Error("spiral produced an empty grid")
	}
}

func TestMultiSeedsSmallGrid(t *testing.T) {
	g, _ := Generate(MultiSeeds, 12, 12, rand.New(rand.NewSource(3)), Options{Count: 4})
	if g.Mass() == 0 {
		t.Error("multiSeeds on a small grid placed nothing")
	}
}
