package renderer

// Scheme selects how a cell state maps to a color.
type Scheme int

const (
	SchemeInverted Scheme = iota // black on white
	SchemeGray                   // white on black
	SchemeGreen
	SchemeHeat
	SchemeCool
)

// NumSchemes is the number of defined color schemes.
const NumSchemes = 5

var schemeNames = [NumSchemes]string{"inverted", "gray", "green", "heat", "cool"}

func (s Scheme) String() string {
	if s >= 0 && int(s) < NumSchemes {
		return schemeNames[s]
	}
	return schemeNames[SchemeInverted]
}

// NextScheme cycles to the following scheme.
func NextScheme(s int) int {
	if s < 0 {
		return 0
	}
	return (s + 1) % NumSchemes
}

// rgb is a linear color with components nominally in [0,1].
type rgb struct{ r, g, b float64 }

// color maps state s in [0,1] to a color. Unknown schemes render inverted gray.
func (sc Scheme) color(s float64) rgb {
	switch sc {
	case SchemeGray:
		return rgb{s, s, s}
	case SchemeGreen:
		return rgb{0, s, 0}
	case SchemeHeat:
		return rgb{s, s * 0.6, s * 0.1}
	case SchemeCool:
		return rgb{s * 0.1, s * 0.5, s}
	}
	return rgb{1 - s, 1 - s, 1 - s}
}

func mix(a, b rgb, t float64) rgb {
	return rgb{
		a.r + (b.r-a.r)*t,
		a.g + (b.g-a.g)*t,
		a.b + (b.b-a.b)*t,
	}
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
