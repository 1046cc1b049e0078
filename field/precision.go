package field

import (
	"fmt"
	"math"

	"github.com/x448/float16"
)

// Precision selects how cell states are stored after each write.
type Precision int

const (
	// Float32 keeps full single precision.
	Float32 Precision = iota
	// Float16 rounds every state through IEEE 754 binary16.
	Float16
	// Uint8 quantizes states to k/255, like an 8-bit texture channel.
	Uint8
)

var precisionNames = map[Precision]string{
	Float32: "float32",
	Float16: "float16",
	Uint8:   "uint8",
}

func (p Precision) String() string {
	if s, ok := precisionNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// ParsePrecision maps a config name to a Precision. "auto" resolves to the
// highest precision the caller's backend can store.
func ParsePrecision(name string, highPrecisionAvailable bool) (Precision, error) {
	switch name {
	case "", "auto":
		if highPrecisionAvailable {
			return Float32, nil
		}
		return Float16, nil
	case "float32":
		return Float32, nil
	case "float16", "half":
		return Float16, nil
	case "uint8", "byte":
		return Uint8, nil
	}
	return Float32, fmt.Errorf("unknown precision %q", name)
}

// Quantize returns v as it would read back from storage of precision p.
func (p Precision) Quantize(v float32) float32 {
	switch p {
	case Float16:
		return float16.Fromfloat32(v).Float32()
	case Uint8:
		return float32(math.Round(float64(Clamp01(v))*255)) / 255
	}
	return v
}

// QuantizeSlice applies Quantize in place.
func (p Precision) QuantizeSlice(cells []float32) {
	if p == Float32 {
		return
	}
	for i, v := range cells {
		cells[i] = p.Quantize(v)
	}
}
