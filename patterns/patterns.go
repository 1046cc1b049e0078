// Package patterns synthesizes initial grid contents. Every generator is a
// pure function of its size, options and the RNG it is handed.
package patterns

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/lenia/field"
)

// ID names a pattern.
type ID string

const (
	Random         ID = "random"
	RandomClusters ID = "randomClusters"
	Orbium         ID = "orbium"
	Glider         ID = "glider"
	Gemini         ID = "gemini"
	MultiSeeds     ID = "multiSeeds"
	Spiral         ID = "spiral"
	Lines          ID = "lines"
	Noise          ID = "noise"
)

// Fallback is generated for unknown ids.
const Fallback = Random

// Options tunes the parameterized generators. Zero fields take defaults.
type Options struct {
	Density     float64 // random: probability a cell starts alive
	ClusterSize float64 // randomClusters: nominal cluster radius
	Count       int     // randomClusters, multiSeeds and lines
}

// DefaultOptions returns the stock generator settings.
func DefaultOptions() Options {
	return Options{Density: 0.5, ClusterSize: 20}
}

type generator func(g *field.Grid, rng *rand.Rand, opts Options)

var order = []ID{Random, RandomClusters, Orbium, Glider, Gemini, MultiSeeds, Spiral, Lines, Noise}

var generators = map[ID]generator{
	Random:         genRandom,
	RandomClusters: genClusters,
	Orbium:         func(g *field.Grid, _ *rand.Rand, _ Options) { stampCentered(g, orbium, templateScale) },
	Glider:         func(g *field.Grid, _ *rand.Rand, _ Options) { stampCentered(g, glider, templateScale) },
	Gemini:         func(g *field.Grid, _ *rand.Rand, _ Options) { stampCentered(g, gemini, templateScale) },
	MultiSeeds:     genMultiSeeds,
	Spiral:         genSpiral,
	Lines:          genLines,
	Noise:          genNoise,
}

// IDs lists every pattern in display order.
func IDs() []ID {
	out := make([]ID, len(order))
	copy(out, order)
	return out
}

// Known reports whether id names a pattern.
func Known(id ID) bool {
	_, ok := generators[id]
	return ok
}

// Generate builds a w×h grid for pattern id. Unknown ids generate the
// fallback pattern; the returned ID is the pattern actually produced.
func Generate(id ID, w, h int, rng *rand.Rand, opts Options) (*field.Grid, ID) {
	gen, ok := generators[id]
	if !ok {
		slog.Warn("unknown pattern, using fallback", "pattern", string(id), "fallback", string(Fallback))
		id = Fallback
		gen = generators[id]
	}
	g := field.NewGrid(w, h)
	if g == nil {
		return nil, id
	}
	gen(g, rng, withDefaults(opts))
	return g, id
}

func withDefaults(o Options) Options {
	d := DefaultOptions()
	if o.Density > 0 {
		d.Density = o.Density
	}
	if o.ClusterSize > 0 {
		d.ClusterSize = o.ClusterSize
	}
	d.Count = o.Count
	return d
}

// byteVal converts an authored 0-255 intensity to a cell state.
func byteVal(v int) float32 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 1
	}
	return float32(v) / 255
}

func setMax(g *field.Grid, x, y int, v float32) {
	if !g.In(x, y) {
		return
	}
	i := g.Index(x, y)
	if v > g.Cells[i] {
		g.Cells[i] = v
	}
}
