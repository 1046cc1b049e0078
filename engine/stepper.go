package engine

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/lenia/field"
	"github.com/pthm-cable/lenia/kernels"
)

// Backend names accepted by NewStepper.
const (
	BackendCPU    = "cpu"
	BackendOpenCL = "opencl"
)

// ErrBackendUnavailable is returned when the requested backend is not
// compiled in or finds no usable device.
var ErrBackendUnavailable = errors.New("compute backend unavailable")

// Rule holds the growth parameters of one update.
type Rule struct {
	GrowthCenter float64
	GrowthWidth  float64
	TimeScale    float64
}

// growthRate scales the signed growth into a per-step state change.
const growthRate = 0.1

// Growth maps a convolution sum to a signed rate in [-1, 1].
func (r Rule) Growth(sum float64) float64 {
	return kernels.Gauss(sum, r.GrowthCenter, r.GrowthWidth)*2 - 1
}

// Apply returns the next state for a cell with value cur and neighbourhood sum.
func (r Rule) Apply(cur float32, sum float64) float32 {
	return field.Clamp01(cur + float32(r.Growth(sum)*r.TimeScale*growthRate))
}

// Stepper computes one update from src into dst. src and dst have the same
// size and never alias.
type Stepper interface {
	Name() string
	// HighPrecision reports whether the backend can store float32 states.
	HighPrecision() bool
	Step(src, dst *field.Grid, prog *kernels.Program, rule Rule) error
	Close()
}

// StepperOptions tunes backend construction.
type StepperOptions struct {
	Workers           int
	ParallelThreshold int // grids with fewer cells run on the calling goroutine
}

// NewStepper builds the named backend.
func NewStepper(name string, opts StepperOptions) (Stepper, error) {
	switch name {
	case "", BackendCPU:
		return NewCPUStepper(opts), nil
	case BackendOpenCL:
		s, err := newOpenCLStepper()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, name, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, name)
}

// CPUStepper runs the convolution on a pool of row workers.
type CPUStepper struct {
	pool      *workerPool
	threshold int
}

// NewCPUStepper returns a CPU backend.
func NewCPUStepper(opts StepperOptions) *CPUStepper {
	return &CPUStepper{
		pool:      newWorkerPool(opts.Workers),
		threshold: opts.ParallelThreshold,
	}
}

func (s *CPUStepper) Name() string        { return BackendCPU }
func (s *CPUStepper) HighPrecision() bool { return true }

func (s *CPUStepper) Step(src, dst *field.Grid, prog *kernels.Program, rule Rule) error {
	if !src.SameSize(dst) {
		return fmt.Errorf("step: buffer size mismatch %dx%d vs %dx%d", src.W, src.H, dst.W, dst.H)
	}
	rows := func(y0, y1 int) { stepRows(src, dst, prog, rule, y0, y1) }
	if len(src.Cells) < s.threshold {
		rows(0, src.H)
		return nil
	}
	s.pool.run(src.H, rows)
	return nil
}

func (s *CPUStepper) Close() {
	s.pool.stop()
}

// stepRows updates rows [y0, y1) of dst. Reads outside the grid clamp to
// the nearest edge cell.
func stepRows(src, dst *field.Grid, prog *kernels.Program, rule Rule, y0, y1 int) {
	w, h, r := src.W, src.H, prog.Radius
	cells := src.Cells
	taps := prog.Taps

	// flat offsets for cells whose whole neighbourhood is inside the grid
	offsets := make([]int, len(taps))
	for i, t := range taps {
		offsets[i] = t.DY*w + t.DX
	}

	for y := y0; y < y1; y++ {
		innerY := y >= r && y < h-r
		row := y * w
		for x := 0; x < w; x++ {
			var sum float32
			if innerY && x >= r && x < w-r {
				base := row + x
				for i, t := range taps {
					sum += cells[base+offsets[i]] * t.W
				}
			} else {
				sum = potentialAt(src, taps, x, y)
			}
			dst.Cells[row+x] = rule.Apply(cells[row+x], float64(sum))
		}
	}
}

// potentialAt sums the taps around (x, y), clamping reads to the grid edge.
func potentialAt(g *field.Grid, taps []kernels.Tap, x, y int) float32 {
	var sum float32
	for _, t := range taps {
		sum += g.At(x+t.DX, y+t.DY) * t.W
	}
	return sum
}
