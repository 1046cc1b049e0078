package patterns

import (
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/lenia/field"
)

func genRandom(g *field.Grid, rng *rand.Rand, opts Options) {
	for i := range g.Cells {
		if rng.Float64() < opts.Density {
			g.Cells[i] = byteVal(rng.Intn(180) + 75)
		}
	}
}

func genClusters(g *field.Grid, rng *rand.Rand, opts Options) {
	count := opts.Count
	if count <= 0 {
		count = 15
	}
	for c := 0; c < count; c++ {
		cx := rng.Float64() * float64(g.W)
		cy := rng.Float64() * float64(g.H)
		radius := (rng.Float64()*0.5 + 0.5) * opts.ClusterSize

		x0 := max(0, int(math.Floor(cx-radius)))
		x1 := min(g.W, int(math.Ceil(cx+radius)))
		y0 := max(0, int(math.Floor(cy-radius)))
		y1 := min(g.H, int(math.Ceil(cy+radius)))
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				dist := math.Hypot(float64(x)-cx, float64(y)-cy)
				if dist >= radius {
					continue
				}
				strength := rng.Float64()*0.4 + 0.6
				v := int(math.Floor(255 * (1 - dist/radius) * strength))
				setMax(g, x, y, byteVal(v))
			}
		}
	}
}

func genSpiral(g *field.Grid, _ *rand.Rand, _ Options) {
	cx := float64(g.W) / 2
	cy := float64(g.H) / 2
	maxR := float64(min(g.W, g.H)) / 6
	if maxR <= 0 {
		return
	}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist := math.Hypot(dx, dy)
			if dist > maxR {
				continue
			}
			phase := dist/5 - math.Atan2(dy, dx)*2/math.Pi
			arm := math.Cos(phase*2*math.Pi)*0.5 + 0.5
			v := int(math.Floor(arm * (1 - dist/maxR) * 255))
			g.Cells[g.Index(x, y)] = byteVal(v)
		}
	}
}

func genLines(g *field.Grid, rng *rand.Rand, opts Options) {
	count := opts.Count
	if count <= 0 {
		count = 3
	}
	const halfWidth = 2.0
	half := float64(min(g.W, g.H)) / 4
	cx := float64(g.W) / 2
	cy := float64(g.H) / 2

	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		dirX, dirY := math.Cos(angle), math.Sin(angle)
		offR := rng.Float64() * 20
		offA := rng.Float64() * 2 * math.Pi
		sx := cx + math.Cos(offA)*offR
		sy := cy + math.Sin(offA)*offR

		for d := -half; d <= half; d++ {
			fade := 1 - math.Abs(d)/half*0.7
			v := byteVal(int(math.Floor(255 * fade)))
			for w := -halfWidth; w <= halfWidth; w++ {
				x := int(math.Floor(sx + dirX*d + dirY*w))
				y := int(math.Floor(sy + dirY*d - dirX*w))
				g.Set(x, y, v)
			}
		}
	}
}

// noiseScale is the base feature size of the noise pattern in cells.
const noiseScale = 24.0

func genNoise(g *field.Grid, rng *rand.Rand, _ Options) {
	n := opensimplex.NewNormalized(rng.Int63())
	ox := rng.Float64() * 1000
	oy := rng.Float64() * 1000
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			u := float64(x)/noiseScale + ox
			v := float64(y)/noiseScale + oy
			sum, amp, freq, norm := 0.0, 0.5, 1.0, 0.0
			for o := 0; o < 4; o++ {
				sum += amp * n.Eval2(u*freq, v*freq)
				norm += amp
				freq *= 2
				amp *= 0.5
			}
			// keep only the peaks so the field starts as sparse blobs
			s := (sum/norm - 0.55) / 0.3
			g.Cells[g.Index(x, y)] = field.Clamp01(float32(s))
		}
	}
}
