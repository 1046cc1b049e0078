package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/pthm-cable/lenia/camera"
	"github.com/pthm-cable/lenia/field"
)

func uniformGrid(w, h int, v float32) *field.Grid {
	g := field.NewGrid(w, h)
	for i := range g.Cells {
		g.Cells[i] = v
	}
	return g
}

func TestSchemeColors(t *testing.T) {
	tests := []struct {
		scheme Scheme
		state  float64
		want   color.RGBA
	}{
		{SchemeInverted, 0, color.RGBA{255, 255, 255, 255}},
		{SchemeInverted, 1, color.RGBA{0, 0, 0, 255}},
		{SchemeGray, 1, color.RGBA{255, 255, 255, 255}},
		{SchemeGreen, 1, color.RGBA{0, 255, 0, 255}},
		{SchemeHeat, 1, color.RGBA{255, 153, 26, 255}},
		{SchemeCool, 1, color.RGBA{26, 128, 255, 255}},
		{Scheme(42), 0.25, color.RGBA{191, 191, 191, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.scheme.String(), func(t *testing.T) {
			g := uniformGrid(4, 4, float32(tt.state))
			img := image.NewRGBA(image.Rect(0, 0, 4, 4))
			NewPipeline(1).Render(img, g, camera.New(), Settings{Scheme: tt.scheme})
			if got := img.RGBAAt(2, 1); got != tt.want {
				t.Errorf("scheme %d state %v = %v, want %v", tt.scheme, tt.state, got, tt.want)
			}
		})
	}
}

func TestOutOfBoundsIsBlack(t *testing.T) {
	g := uniformGrid(10, 10, 0) // inverted scheme renders empty cells white
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	vp := &camera.Viewport{Zoom: 0.5}
	NewPipeline(2).Render(img, g, vp, Settings{})

	black := color.RGBA{A: 255}
	if got := img.RGBAAt(0, 0); got != black {
		t.Errorf("corner outside the grid = %v, want black", got)
	}
	if got := img.RGBAAt(20, 20); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("center inside the grid = %v, want white", got)
	}
}

func TestViewportSampling(t *testing.T) {
	g := field.NewGrid(2, 1)
	g.Cells[1] = 1 // right half alive
	img := image.NewRGBA(image.Rect(0, 0, 8, 2))
	NewPipeline(1).Render(img, g, camera.New(), Settings{Scheme: SchemeGray})

	if img.RGBAAt(1, 0).R != 0 || img.RGBAAt(6, 0).R != 255 {
		t.Errorf("left=%v right=%v", img.RGBAAt(1, 0), img.RGBAAt(6, 0))
	}
}

func TestDitherBounded(t *testing.T) {
	const amount = 0.05
	var nonZero bool
	for i := 0; i < 200; i++ {
		u := float64(i) / 200
		d := Dither(u, 1-u, amount)
		if math.Abs(d) > amount+1e-12 {
			t.Fatalf("Dither(%v) = %v exceeds amount", u, d)
		}
		if d != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Error("dither produced no noise")
	}
	if Dither(0.3, 0.7, 0) != 0 {
		t.Error("zero amount should not dither")
	}
}

func TestBloomLeavesEmptyCellsUnchanged(t *testing.T) {
	g := field.NewGrid(20, 20)
	for y := 8; y < 12; y++ {
		for x := 8; x < 12; x++ {
			g.Set(x, y, 1)
		}
	}
	plain := image.NewRGBA(image.Rect(0, 0, 20, 20))
	bloomed := image.NewRGBA(image.Rect(0, 0, 20, 20))
	p := NewPipeline(3)
	p.Render(plain, g, camera.New(), Settings{Scheme: SchemeGreen})
	p.Render(bloomed, g, camera.New(), Settings{
		Scheme: SchemeGreen, Bloom: true, BloomIntensity: 1, BloomRadius: 4,
	})

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if g.At(x, y) == 0 && plain.RGBAAt(x, y) != bloomed.RGBAAt(x, y) {
				t.Fatalf("bloom changed empty pixel (%d,%d): %v -> %v", x, y, plain.RGBAAt(x, y), bloomed.RGBAAt(x, y))
			}
		}
	}
	if plain.RGBAAt(10, 10) == bloomed.RGBAAt(10, 10) {
		t.Error("bloom had no effect on a live pixel")
	}
}

func TestBloomTapsRespectCap(t *testing.T) {
	p := NewPipeline(1)
	p.prepareBloom(50)
	limit := float64(MaxBloomSamples) * bloomOffsetScale
	for _, tap := range p.bloomTaps {
		if math.Hypot(tap.ox, tap.oy) > limit+1e-12 {
			t.Fatalf("tap (%v,%v) beyond the sample cap", tap.ox, tap.oy)
		}
	}

	p.prepareBloom(2) // radius 2 -> sample radius 6
	for _, tap := range p.bloomTaps {
		if math.Hypot(tap.ox, tap.oy) > 6*bloomOffsetScale+1e-12 {
			t.Fatalf("tap (%v,%v) beyond radius 6", tap.ox, tap.oy)
		}
	}
}

func TestRenderSize(t *testing.T) {
	tests := []struct {
		name         string
		cw, ch       int
		factor       float64
		max          int
		wantW, wantH int
	}{
		{"identity", 800, 600, 1, 0, 800, 600},
		{"half", 800, 600, 0.5, 0, 400, 300},
		{"capped", 4000, 2000, 1, 2048, 2048, 1024},
		{"minimum", 0, 0, 1, 0, 1, 1},
		{"bad factor", 100, 50, -1, 0, 100, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := RenderSize(tt.cw, tt.ch, tt.factor, tt.max)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("RenderSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNextScheme(t *testing.T) {
	if NextScheme(4) != 0 || NextScheme(0) != 1 || NextScheme(-2) != 0 {
		t.Error("NextScheme does not cycle through all schemes")
	}
}

func TestBandedRenderMatchesSingleBand(t *testing.T) {
	g := field.NewGrid(31, 17)
	for i := range g.Cells {
		g.Cells[i] = float32(i%13) / 12
	}
	vp := camera.New()
	vp.ZoomAt(0.3, 0.6, 2)
	s := Settings{Scheme: SchemeHeat, Dither: true, DitherAmount: 0.05, Bloom: true, BloomIntensity: 0.7, BloomRadius: 3}

	want := image.NewRGBA(image.Rect(0, 0, 61, 45))
	NewPipeline(1).Render(want, g, vp, s)
	for _, workers := range []int{2, 7, 64} {
		got := image.NewRGBA(want.Rect)
		NewPipeline(workers).Render(got, g, vp, s)
		for i := range want.Pix {
			if got.Pix[i] != want.Pix[i] {
				t.Fatalf("workers=%d: byte %d = %d, want %d", workers, i, got.Pix[i], want.Pix[i])
			}
		}
	}
}
