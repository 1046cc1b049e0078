// Package kernels defines the convolution kernels available to the engine and
// compiles them into tap tables the shared convolution loop consumes.
//
// Every kernel is a closed enum value backed by a pure weight function of the
// normalized distance d = r/R. Weights outside the unit disc are zero.
package kernels

import (
	"math"
)

// ID names a kernel. The string form is what the settings store persists.
type ID string

const (
	Gaussian     ID = "gaussian"
	Ring         ID = "ring"
	Bipolar      ID = "bipolar"
	MultiRing    ID = "multiRing"
	Directional  ID = "directional"
	PredatorPrey ID = "predatorPrey"
	Fractal      ID = "fractal"
	Oscillating  ID = "oscillating"
	SmoothLife   ID = "smoothLife"
)

// Default is substituted for unknown ids.
const Default = Gaussian

// WeightFunc returns the weight at normalized distance d in direction theta
// (radians, the angle of the neighbour offset). Radial kernels ignore theta.
type WeightFunc func(d, theta float64) float64

// Definition describes one kernel.
type Definition struct {
	ID          ID
	Name        string
	Description string
	weight      WeightFunc
}

// Weight evaluates the kernel, returning 0 for d > 1.
func (def Definition) Weight(d, theta float64) float64 {
	if d > 1 || d < 0 {
		return 0
	}
	return def.weight(d, theta)
}

// Gauss is exp(-(x-a)²/b²). It peaks at 1 when x == a.
func Gauss(x, a, b float64) float64 {
	t := (x - a) / b
	return math.Exp(-t * t)
}

var definitions = []Definition{
	{
		ID:          Gaussian,
		Name:        "Gaussian Ring",
		Description: "Classic Lenia shell peaking at half the radius",
		weight: func(d, _ float64) float64 {
			return Gauss(d, 0.5, 0.15)
		},
	},
	{
		ID:          Ring,
		Name:        "Sharp Ring",
		Description: "Thin ring near the rim",
		weight: func(d, _ float64) float64 {
			return Gauss(d, 0.7, 0.1)
		},
	},
	{
		ID:          Bipolar,
		Name:        "Bipolar",
		Description: "Inner attraction with outer repulsion",
		weight: func(d, _ float64) float64 {
			return Gauss(d, 0.2, 0.1)*0.5 - Gauss(d, 0.6, 0.2)*0.5 + 0.5
		},
	},
	{
		ID:          MultiRing,
		Name:        "Multi Ring",
		Description: "Three concentric rings of falling strength",
		weight: func(d, _ float64) float64 {
			return Gauss(d, 0.3, 0.05)*0.5 + Gauss(d, 0.6, 0.05)*0.3 + Gauss(d, 0.9, 0.05)*0.2
		},
	},
	{
		ID:          Directional,
		Name:        "Directional",
		Description: "Gaussian shell biased toward +x",
		weight: func(d, theta float64) float64 {
			return Gauss(d, 0.5, 0.15) * (math.Cos(theta)*0.3 + 0.7)
		},
	},
	{
		ID:          PredatorPrey,
		Name:        "Predator-Prey",
		Description: "Near attraction against a mid-range inhibitory band",
		weight: func(d, _ float64) float64 {
			return Gauss(d, 0.2, 0.2) - Gauss(d, 0.6, 0.1) + 0.2
		},
	},
	{
		ID:          Fractal,
		Name:        "Fractal",
		Description: "Alternating rings at four scales",
		weight: func(d, _ float64) float64 {
			return Gauss(d, 0.2, 0.05) -
				Gauss(d, 0.4, 0.05)*0.75 +
				Gauss(d, 0.6, 0.05)*0.5 -
				Gauss(d, 0.8, 0.05)*0.25
		},
	},
	{
		ID:          Oscillating,
		Name:        "Oscillating",
		Description: "Damped radial wave under a wide envelope",
		weight: func(d, _ float64) float64 {
			wave := math.Sin(d*10)*0.5*math.Exp(-d*3) + 0.5
			return wave * Gauss(d, 0.5, 0.5)
		},
	},
	{
		ID:          SmoothLife,
		Name:        "SmoothLife",
		Description: "Thresholded inner disc against an outer annulus",
		weight: func(d, _ float64) float64 {
			var inner, outer float64
			if d <= 0.25 {
				inner = -1
			}
			if d >= 0.25 && d <= 0.65 {
				outer = 1
			}
			return (inner+outer)*0.5 + 0.5
		},
	},
}

var byID = func() map[ID]int {
	m := make(map[ID]int, len(definitions))
	for i, def := range definitions {
		m[def.ID] = i
	}
	return m
}()

// All returns every kernel in display order.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the kernel for id.
func Lookup(id ID) (Definition, bool) {
	i, ok := byID[id]
	if !ok {
		return Definition{}, false
	}
	return definitions[i], true
}

// Resolve returns the kernel for id, or the default kernel when id is unknown.
// The second result reports whether the fallback was taken.
func Resolve(id ID) (Definition, bool) {
	if def, ok := Lookup(id); ok {
		return def, false
	}
	def, _ := Lookup(Default)
	return def, true
}

// Next returns the kernel after id in display order, wrapping around.
func Next(id ID) ID {
	i, ok := byID[id]
	if !ok {
		return definitions[0].ID
	}
	return definitions[(i+1)%len(definitions)].ID
}
