// Package renderer turns the field into pixels: viewport sampling, optional
// dithering, color mapping and an optional bloom glow. Output goes to an
// *image.RGBA so any front end can upload it.
package renderer

import (
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/pthm-cable/lenia/camera"
	"github.com/pthm-cable/lenia/field"
)

// MaxBloomSamples caps the bloom sampling radius in offset steps.
const MaxBloomSamples = 12

// bloomOffsetScale converts bloom sample steps into normalized screen units.
const bloomOffsetScale = 1.0 / 80

// Settings are the per-frame visual parameters.
type Settings struct {
	Scheme         Scheme
	Dither         bool
	DitherAmount   float64
	Bloom          bool
	BloomIntensity float64
	BloomRadius    float64
}

type bloomTap struct {
	ox, oy float64
	w      float64
}

// Pipeline renders grids. The zero value is usable; NewPipeline sets the
// row parallelism.
type Pipeline struct {
	workers int

	// cached bloom taps, rebuilt when the radius changes
	bloomRadius float64
	bloomTaps   []bloomTap
}

// NewPipeline returns a pipeline that renders rows on up to workers
// goroutines. workers < 1 uses GOMAXPROCS.
func NewPipeline(workers int) *Pipeline {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pipeline{workers: workers}
}

// RenderSize returns the render target size for a container: the container
// scaled by factor, at least 1×1, and no side larger than maxSide when
// maxSide > 0. The aspect ratio is kept when capping.
func RenderSize(containerW, containerH int, factor float64, maxSide int) (w, h int) {
	if factor <= 0 {
		factor = 1
	}
	fw := float64(containerW) * factor
	fh := float64(containerH) * factor
	if maxSide > 0 {
		if m := max(fw, fh); m > float64(maxSide) {
			s := float64(maxSide) / m
			fw *= s
			fh *= s
		}
	}
	return max(1, int(math.Round(fw))), max(1, int(math.Round(fh)))
}

// Render draws g into dst as seen through vp.
func (p *Pipeline) Render(dst *image.RGBA, g *field.Grid, vp *camera.Viewport, s Settings) {
	b := dst.Bounds()
	if b.Empty() || g == nil {
		return
	}
	if s.Bloom {
		p.prepareBloom(s.BloomRadius)
	}
	w, h := b.Dx(), b.Dy()

	workers := p.workers
	if workers < 1 {
		workers = 1
	}
	rowsPer := (h + workers - 1) / workers

	var wg sync.WaitGroup
	for y0 := 0; y0 < h; y0 += rowsPer {
		y1 := min(y0+rowsPer, h)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					u := (float64(x) + 0.5) / float64(w)
					v := (float64(y) + 0.5) / float64(h)
					dst.SetRGBA(b.Min.X+x, b.Min.Y+y, p.shade(g, vp, u, v, s))
				}
			}
		}()
	}
	wg.Wait()
}

// shade computes one pixel at normalized screen position (u, v).
func (p *Pipeline) shade(g *field.Grid, vp *camera.Viewport, u, v float64, s Settings) color.RGBA {
	sx, sy := vp.ScreenToSim(u, v)
	if !inUnit(sx, sy) {
		return color.RGBA{A: 255}
	}
	state := sample(g, sx, sy)
	if s.Dither {
		state = clamp01(state + Dither(u, v, s.DitherAmount))
	}

	c := s.Scheme.color(state)
	if s.Bloom {
		glow := p.bloom(g, vp, u, v, s.BloomIntensity)
		c = mix(c, glow, clamp01(s.BloomIntensity*1.2*state))
	}
	return color.RGBA{R: toByte(c.r), G: toByte(c.g), B: toByte(c.b), A: 255}
}

// Dither returns the signed hash noise offset for normalized position (u, v).
func Dither(u, v, amount float64) float64 {
	n1 := fract(math.Sin((u+0.5)*12.9898+(v+0.5)*78.233) * 43758.5453)
	n2 := fract(math.Sin(u*1.5*26.6514+v*1.5*36.7539) * 50643.2341)
	return ((n1*0.7+n2*0.3)*2 - 1) * amount
}

func (p *Pipeline) prepareBloom(radius float64) {
	if radius <= 0 {
		radius = 1
	}
	if p.bloomTaps != nil && p.bloomRadius == radius {
		return
	}
	sr := min(int(radius)+4, MaxBloomSamples)
	taps := make([]bloomTap, 0, (2*sr+1)*(2*sr+1))
	for i := -sr; i <= sr; i++ {
		for j := -sr; j <= sr; j++ {
			d2 := float64(i*i + j*j)
			if d2 > float64(sr*sr) {
				continue
			}
			taps = append(taps, bloomTap{
				ox: float64(i) * bloomOffsetScale,
				oy: float64(j) * bloomOffsetScale,
				w:  math.Exp(-d2 / (radius * 0.5)),
			})
		}
	}
	p.bloomRadius = radius
	p.bloomTaps = taps
}

// bloom averages nearby brightened states and tints the result warm.
func (p *Pipeline) bloom(g *field.Grid, vp *camera.Viewport, u, v, intensity float64) rgb {
	var sum, total float64
	for _, t := range p.bloomTaps {
		sx, sy := vp.ScreenToSim(u+t.ox, v+t.oy)
		if !inUnit(sx, sy) {
			continue
		}
		sum += math.Pow(sample(g, sx, sy), 0.8) * t.w
		total += t.w
	}
	if total <= 0 {
		return rgb{}
	}
	b := sum / total
	k := intensity * 1.5
	return rgb{
		math.Pow(b*1.2, 0.8) * k,
		math.Pow(b*0.8, 0.8) * k,
		math.Pow(b*0.7, 0.8) * k,
	}
}

// sample reads the nearest cell to simulation point (x, y) in [0,1]².
func sample(g *field.Grid, x, y float64) float64 {
	cx := min(int(x*float64(g.W)), g.W-1)
	cy := min(int(y*float64(g.H)), g.H-1)
	return float64(g.Cells[cy*g.W+cx])
}

func inUnit(x, y float64) bool {
	return x >= 0 && x <= 1 && y >= 0 && y <= 1
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
