// Package engine advances the Lenia field one step at a time and owns the
// grid buffers: the current/next pair, the paint overlay and the compiled
// kernel program.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/lenia/field"
	"github.com/pthm-cable/lenia/kernels"
	"github.com/pthm-cable/lenia/patterns"
)

// ErrInvalidSize is returned by New and Resize for non-positive dimensions.
var ErrInvalidSize = errors.New("grid dimensions must be positive")

// Options configures a new Engine.
type Options struct {
	Stepper        Stepper // nil selects a serial CPU stepper
	Precision      field.Precision
	Seed           int64
	Kernel         kernels.ID
	Radius         int
	Pattern        patterns.ID
	PatternOptions patterns.Options
}

// Engine holds the simulation state. It is not safe for concurrent use;
// callers drive it from a single loop.
type Engine struct {
	bufs    [2]*field.Grid
	cur     int
	overlay *field.Overlay

	prog    kernels.Program
	stepper Stepper

	precision   field.Precision
	seed        int64
	epoch       int64
	pattern     patterns.ID
	patternOpts patterns.Options

	steps            int64
	stepsSinceReseed int64
}

// New allocates a w×h engine and seeds it with opts.Pattern.
func New(w, h int, opts Options) (*Engine, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("new engine %dx%d: %w", w, h, ErrInvalidSize)
	}
	st := opts.Stepper
	if st == nil {
		st = NewCPUStepper(StepperOptions{Workers: 1})
	}
	e := &Engine{
		stepper:     st,
		precision:   opts.Precision,
		seed:        opts.Seed,
		pattern:     opts.Pattern,
		patternOpts: opts.PatternOptions,
	}
	if e.pattern == "" {
		e.pattern = patterns.Fallback
	}
	e.ChangeKernel(opts.Kernel, opts.Radius)
	e.install(w, h, e.pattern)
	return e, nil
}

// Current returns the most recently completed state.
func (e *Engine) Current() *field.Grid { return e.bufs[e.cur] }

// Overlay returns the paint buffer merged by MergeOverlay.
func (e *Engine) Overlay() *field.Overlay { return e.overlay }

// Size returns the grid dimensions.
func (e *Engine) Size() (w, h int) {
	g := e.Current()
	return g.W, g.H
}

// Program returns the compiled kernel in use.
func (e *Engine) Program() kernels.Program { return e.prog }

// Pattern returns the pattern used by the last reseed.
func (e *Engine) Pattern() patterns.ID { return e.pattern }

// Precision returns the storage precision.
func (e *Engine) Precision() field.Precision { return e.precision }

// Backend names the stepper in use.
func (e *Engine) Backend() string { return e.stepper.Name() }

// Steps returns the number of completed steps since New.
func (e *Engine) Steps() int64 { return e.steps }

// Step computes the next state into the spare buffer and swaps.
func (e *Engine) Step(rule Rule) error {
	src := e.bufs[e.cur]
	dst := e.bufs[e.cur^1]
	if err := e.stepper.Step(src, dst, &e.prog, rule); err != nil {
		return fmt.Errorf("step %d: %w", e.steps, err)
	}
	e.precision.QuantizeSlice(dst.Cells)
	e.cur ^= 1
	e.steps++
	e.stepsSinceReseed++
	return nil
}

// ChangeKernel recompiles the tap table. Unknown ids fall back to the
// default kernel; the ID actually compiled is returned.
func (e *Engine) ChangeKernel(id kernels.ID, radius int) kernels.ID {
	prog, fellBack := kernels.Compile(id, radius)
	if fellBack {
		slog.Warn("unknown kernel, using default", "kernel", string(id), "fallback", string(prog.Kernel))
	}
	if radius != prog.Radius {
		slog.Debug("kernel radius clamped", "requested", radius, "radius", prog.Radius)
	}
	e.prog = prog
	return prog.Kernel
}

// Reseed fills both buffers with pattern id and clears the overlay.
// Reseeding again before any step reproduces the same grid; after steps
// have run, the next reseed draws fresh randomness.
func (e *Engine) Reseed(id patterns.ID) patterns.ID {
	w, h := e.Size()
	return e.install(w, h, id)
}

// Resize replaces every buffer with w×h ones and reseeds with the current
// pattern. Non-positive sizes leave the engine untouched.
func (e *Engine) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		slog.Warn("rejecting resize", "width", w, "height", h)
		return fmt.Errorf("resize to %dx%d: %w", w, h, ErrInvalidSize)
	}
	if cw, ch := e.Size(); cw == w && ch == h {
		return nil
	}
	e.install(w, h, e.pattern)
	return nil
}

// install builds a complete seeded buffer set of w×h and swaps it in.
func (e *Engine) install(w, h int, id patterns.ID) patterns.ID {
	if e.stepsSinceReseed > 0 {
		e.epoch++
	}
	e.stepsSinceReseed = 0

	rng := rand.New(rand.NewSource(e.seed + e.epoch))
	g, used := patterns.Generate(id, w, h, rng, e.patternOpts)
	e.precision.QuantizeSlice(g.Cells)

	next := [2]*field.Grid{g, g.Clone()}
	overlay := field.NewOverlay(w, h)

	e.bufs = next
	e.overlay = overlay
	e.cur = 0
	e.pattern = used
	return used
}

// Load replaces the state with a copy of g, resizing to match. The overlay
// is cleared and the next reseed draws fresh randomness.
func (e *Engine) Load(g *field.Grid) error {
	if g == nil || g.W <= 0 || g.H <= 0 || len(g.Cells) != g.W*g.H {
		return fmt.Errorf("load state: %w", ErrInvalidSize)
	}
	cur := g.Clone()
	for i, v := range cur.Cells {
		cur.Cells[i] = e.precision.Quantize(field.Clamp01(v))
	}
	e.bufs = [2]*field.Grid{cur, cur.Clone()}
	e.overlay = field.NewOverlay(g.W, g.H)
	e.cur = 0
	e.stepsSinceReseed++
	return nil
}

// SetPattern changes the pattern used by the next Resize without reseeding.
func (e *Engine) SetPattern(id patterns.ID) {
	if patterns.Known(id) {
		e.pattern = id
	}
}

// Potential returns the kernel-weighted neighbourhood sum at (x, y) of the
// current state, the value the next step feeds into the growth function.
func (e *Engine) Potential(x, y int) float64 {
	return float64(potentialAt(e.Current(), e.prog.Taps, x, y))
}

// MergeOverlay adds painted intensity into the current buffer, saturating at
// 1, then clears the overlay. It reports whether anything was merged.
func (e *Engine) MergeOverlay() bool {
	cur := e.Current()
	if !e.overlay.MergeInto(cur) {
		return false
	}
	e.precision.QuantizeSlice(cur.Cells)
	return true
}

// Close releases the stepper.
func (e *Engine) Close() {
	if e.stepper != nil {
		e.stepper.Close()
		e.stepper = nil
	}
}
