package kernels

import "math"

// MaxRadius bounds the convolution neighbourhood so step cost stays bounded.
const MaxRadius = 20

// Tap is one neighbour offset and its weight.
type Tap struct {
	DX, DY int
	W      float32
}

// Program is a kernel compiled for a specific radius: the full list of
// offsets with r <= radius and their weights.
type Program struct {
	Kernel ID
	Radius int
	Taps   []Tap
}

// ClampRadius restricts r to [1, MaxRadius].
func ClampRadius(r int) int {
	if r < 1 {
		return 1
	}
	if r > MaxRadius {
		return MaxRadius
	}
	return r
}

// Compile builds the tap table for kernel id at the given radius. Unknown ids
// compile the default kernel; the returned flag reports the fallback.
func Compile(id ID, radius int) (Program, bool) {
	def, fellBack := Resolve(id)
	radius = ClampRadius(radius)

	taps := make([]Tap, 0, (2*radius+1)*(2*radius+1))
	rr := float64(radius)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r := math.Hypot(float64(dx), float64(dy))
			if r > rr {
				continue
			}
			w := def.Weight(r/rr, math.Atan2(float64(dy), float64(dx)))
			if w == 0 {
				continue
			}
			taps = append(taps, Tap{DX: dx, DY: dy, W: float32(w)})
		}
	}
	return Program{Kernel: def.ID, Radius: radius, Taps: taps}, fellBack
}

// TotalWeight is the sum of all tap weights.
func (p Program) TotalWeight() float64 {
	var sum float64
	for _, t := range p.Taps {
		sum += float64(t.W)
	}
	return sum
}
