// Package session owns one running Lenia simulation: the engine, the
// parameter store binding, the viewport and painter, the render pipeline and
// telemetry. Front ends (raylib, ebiten, headless) drive it one Frame at a
// time from a single goroutine.
package session

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/pthm-cable/lenia/camera"
	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/engine"
	"github.com/pthm-cable/lenia/field"
	"github.com/pthm-cable/lenia/interaction"
	"github.com/pthm-cable/lenia/kernels"
	"github.com/pthm-cable/lenia/patterns"
	"github.com/pthm-cable/lenia/renderer"
	"github.com/pthm-cable/lenia/settings"
	"github.com/pthm-cable/lenia/telemetry"
)

// ErrInvalidSize is returned by Resize for a non-positive container.
var ErrInvalidSize = engine.ErrInvalidSize

// historyCap bounds the per-window mass series kept for charts.
const historyCap = 512

// Options are optional collaborators for New.
type Options struct {
	// Output receives telemetry CSVs and snapshots. Nil disables output.
	Output *telemetry.OutputManager
	// LogStats logs every closed telemetry window.
	LogStats bool
	// Stepper overrides the backend named in the config.
	Stepper engine.Stepper
	// StatsCallback, when set, is called with every closed window.
	StatsCallback func(telemetry.WindowStats)
}

// Session is the owned context for one simulation.
type Session struct {
	cfg   *config.Config
	store *settings.Store
	p     settings.Params

	engine    *engine.Engine
	viewport  *camera.Viewport
	painter   *interaction.Painter
	pipeline  *renderer.Pipeline
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager

	logStats      bool
	statsCallback func(telemetry.WindowStats)

	paused    bool
	frameOpen bool

	// last container passed to Resize; a gridSize change is applied
	// against it at the next frame boundary
	containerW, containerH int
	resizePending          bool

	lastStats   telemetry.WindowStats
	massHistory []float64
}

// New builds a session from cfg and the parameters in store. A compute
// backend that cannot be opened is returned as an error.
func New(cfg *config.Config, store *settings.Store, opts Options) (*Session, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	st := opts.Stepper
	if st == nil {
		var err error
		st, err = engine.NewStepper(cfg.Engine.Backend, engine.StepperOptions{
			Workers:           cfg.Derived.Workers,
			ParallelThreshold: cfg.Engine.ParallelThreshold,
		})
		if err != nil {
			return nil, fmt.Errorf("opening compute backend: %w", err)
		}
	}

	prec, err := field.ParsePrecision(cfg.Engine.Precision, st.HighPrecision())
	if err != nil {
		st.Close()
		return nil, err
	}
	if prec == field.Float16 && !st.HighPrecision() {
		slog.Warn("backend lacks high-precision storage, using float16", "backend", st.Name())
	}

	p := store.Params()
	w, h := GridDims(p.GridSize, cfg.Screen.Width, cfg.Screen.Height)
	eng, err := engine.New(w, h, engine.Options{
		Stepper:        st,
		Precision:      prec,
		Seed:           cfg.Engine.Seed,
		Kernel:         kernels.ID(p.KernelType),
		Radius:         p.KernelRadius,
		Pattern:        patterns.ID(p.CurrentPattern),
		PatternOptions: patterns.DefaultOptions(),
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	vp := camera.New()
	s := &Session{
		cfg:           cfg,
		store:         store,
		p:             p,
		engine:        eng,
		viewport:      vp,
		painter:       interaction.NewPainter(vp),
		pipeline:      renderer.NewPipeline(cfg.Derived.Workers),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Telemetry.AliveThreshold),
		bookmarks:     telemetry.NewBookmarkDetector(10),
		output:        opts.Output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		containerW:    cfg.Screen.Width,
		containerH:    cfg.Screen.Height,
	}
	store.Subscribe(s.onChange)

	// Record the pattern actually seeded when the stored one was unknown.
	if used := string(eng.Pattern()); used != p.CurrentPattern {
		if err := store.Set(settings.KeyCurrentPattern, used); err != nil {
			slog.Warn("could not record pattern", "pattern", used, "error", err)
		}
	}

	slog.Info("session started",
		"width", w,
		"height", h,
		"backend", eng.Backend(),
		"precision", prec.String(),
		"kernel", string(eng.Program().Kernel),
		"pattern", string(eng.Pattern()),
	)
	return s, nil
}

// onChange keeps the cached params current and recompiles the kernel when
// its id or radius changes. A gridSize change is applied by the next Frame,
// or sooner by an explicit Resize.
func (s *Session) onChange(c settings.Change) {
	s.p = s.store.Params()
	switch c.Key {
	case settings.KeyKernelType, settings.KeyKernelRadius:
		s.engine.ChangeKernel(kernels.ID(s.p.KernelType), s.p.KernelRadius)
	case settings.KeyGridSize:
		s.resizePending = true
	}
}

// GridDims applies the aspect rule: the shorter container side gets
// gridSize cells and the longer side is scaled to match.
func GridDims(gridSize, containerW, containerH int) (w, h int) {
	if containerW <= 0 || containerH <= 0 {
		return gridSize, gridSize
	}
	aspect := float64(containerW) / float64(containerH)
	if aspect >= 1 {
		return int(math.Round(float64(gridSize) * aspect)), gridSize
	}
	return gridSize, int(math.Round(float64(gridSize) / aspect))
}

// SetParam validates, applies and persists one parameter.
func (s *Session) SetParam(key string, value any) error {
	return s.store.Set(key, value)
}

// ResetToDefaults restores every parameter to its default.
func (s *Session) ResetToDefaults() {
	s.store.ResetToDefaults()
}

// Reseed refills the grid with pattern id, falling back to random for
// unknown ids, and records the pattern used.
func (s *Session) Reseed(id string) patterns.ID {
	used := s.engine.Reseed(patterns.ID(id))
	if err := s.store.Set(settings.KeyCurrentPattern, string(used)); err != nil {
		slog.Warn("could not record pattern", "pattern", string(used), "error", err)
	}
	s.collector.RecordReseed()
	s.bookmarks.Reset()
	return used
}

// ChangeKernel selects a kernel by id and returns the kernel compiled.
// Unknown ids are stored as given and compile to the default kernel.
func (s *Session) ChangeKernel(id string) kernels.ID {
	if err := s.store.Set(settings.KeyKernelType, id); err != nil {
		slog.Warn("could not record kernel", "kernel", id, "error", err)
	}
	return s.engine.Program().Kernel
}

// TogglePause flips the pause state and returns it.
func (s *Session) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

// Paused reports whether stepping is suspended.
func (s *Session) Paused() bool { return s.paused }

// Resize rebuilds the grid for a containerW×containerH display using the
// current gridSize. Non-positive sizes are rejected and the grid is kept.
func (s *Session) Resize(containerW, containerH int) error {
	if containerW <= 0 || containerH <= 0 {
		slog.Warn("rejecting resize", "width", containerW, "height", containerH)
		return fmt.Errorf("resize container %dx%d: %w", containerW, containerH, ErrInvalidSize)
	}
	s.containerW, s.containerH = containerW, containerH
	s.resizePending = false
	w, h := GridDims(s.p.GridSize, containerW, containerH)
	return s.engine.Resize(w, h)
}

// applyPendingResize rebuilds the grid after a gridSize change.
func (s *Session) applyPendingResize() {
	if !s.resizePending {
		return
	}
	if err := s.Resize(s.containerW, s.containerH); err != nil {
		slog.Warn("grid size change not applied", "grid_size", s.p.GridSize, "error", err)
		s.resizePending = false
	}
}

// rule reads the growth parameters for the next step.
func (s *Session) rule() engine.Rule {
	return engine.Rule{
		GrowthCenter: s.p.GrowthCenter,
		GrowthWidth:  s.p.GrowthWidth,
		TimeScale:    s.p.TimeScale,
	}
}

// StepOnce advances exactly one step, paused or not.
func (s *Session) StepOnce() error {
	s.applyPendingResize()
	if s.engine.MergeOverlay() {
		s.collector.RecordPaintMerge()
	}
	return s.engine.Step(s.rule())
}

// Frame runs one frame of simulation: merge painted cells, step unless
// paused, then close the telemetry window if it is due. Render completes
// the frame's timing; without it the next Frame does.
func (s *Session) Frame() error {
	if s.frameOpen {
		s.perf.EndFrame()
	}
	s.perf.StartFrame()
	s.frameOpen = true

	s.perf.StartPhase(telemetry.PhaseMerge)
	s.applyPendingResize()
	if s.engine.MergeOverlay() {
		s.collector.RecordPaintMerge()
	}

	s.perf.StartPhase(telemetry.PhaseStep)
	if !s.paused {
		rule := s.rule()
		for range max(1, s.cfg.Engine.StepsPerFrame) {
			if err := s.engine.Step(rule); err != nil {
				return err
			}
		}
	}

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	return nil
}

// RenderSize is the pixel size to render at for a container.
func (s *Session) RenderSize(containerW, containerH int) (w, h int) {
	return renderer.RenderSize(containerW, containerH, s.p.ResolutionFactor, s.cfg.Render.MaxTextureSize)
}

// Render draws the current state into dst and closes the frame's timing.
func (s *Session) Render(dst *image.RGBA) {
	if s.frameOpen {
		s.perf.StartPhase(telemetry.PhaseRender)
	}
	s.pipeline.Render(dst, s.engine.Current(), s.viewport, s.renderSettings())
	if s.frameOpen {
		s.perf.EndFrame()
		s.frameOpen = false
	}
}

func (s *Session) renderSettings() renderer.Settings {
	return renderer.Settings{
		Scheme:         renderer.Scheme(s.p.ColorScheme),
		Dither:         s.p.EnableDither,
		DitherAmount:   s.p.DitherAmount,
		Bloom:          s.p.EnableBloom,
		BloomIntensity: s.p.BloomIntensity,
		BloomRadius:    s.p.BloomRadius,
	}
}

// RecordPresent notes that a frame reached the screen.
func (s *Session) RecordPresent() { s.perf.RecordPresent() }

// Params returns the parameters in effect.
func (s *Session) Params() settings.Params { return s.p }

// Store returns the parameter store the session is bound to.
func (s *Session) Store() *settings.Store { return s.store }

// Viewport returns the zoom/pan state.
func (s *Session) Viewport() *camera.Viewport { return s.viewport }

// Grid returns the current field. It is replaced on reseed and resize.
func (s *Session) Grid() *field.Grid { return s.engine.Current() }

// Size returns the grid dimensions.
func (s *Session) Size() (w, h int) { return s.engine.Size() }

// Kernel returns the compiled kernel id.
func (s *Session) Kernel() kernels.ID { return s.engine.Program().Kernel }

// Pattern returns the pattern of the last reseed.
func (s *Session) Pattern() patterns.ID { return s.engine.Pattern() }

// Backend names the stepper.
func (s *Session) Backend() string { return s.engine.Backend() }

// Precision names the storage precision.
func (s *Session) Precision() string { return s.engine.Precision().String() }

// Tick returns the number of completed steps.
func (s *Session) Tick() int64 { return s.engine.Steps() }

// Mass returns the sum of the current field.
func (s *Session) Mass() float64 { return s.engine.Current().Mass() }

// PerfStats returns timing over the recent frames.
func (s *Session) PerfStats() telemetry.PerfStats { return s.perf.Stats() }

// LastStats returns the most recently closed telemetry window.
func (s *Session) LastStats() telemetry.WindowStats { return s.lastStats }

// MassHistory returns the mass at the end of each closed window, oldest first.
func (s *Session) MassHistory() []float64 { return s.massHistory }

// Close releases the compute backend. The store is owned by the caller.
func (s *Session) Close() {
	if s.engine != nil {
		s.engine.Close()
	}
}

// CellProbe describes one cell and the update it is about to receive.
type CellProbe struct {
	X, Y      int
	Value     float32
	Potential float64
	Growth    float64
	Next      float32
}

// CellAt maps pixel (px, py) of a canvasW×canvasH display to a grid cell.
func (s *Session) CellAt(px, py float64, canvasW, canvasH int) (x, y int, ok bool) {
	w, h := s.engine.Size()
	return interaction.CellAt(s.viewport, px, py, canvas(canvasW, canvasH), w, h)
}

// Probe reports the state of cell (x, y) and its next value under the
// current parameters. ok is false outside the grid.
func (s *Session) Probe(x, y int) (CellProbe, bool) {
	g := s.engine.Current()
	if !g.In(x, y) {
		return CellProbe{}, false
	}
	rule := s.rule()
	v := g.At(x, y)
	u := s.engine.Potential(x, y)
	return CellProbe{
		X:         x,
		Y:         y,
		Value:     v,
		Potential: u,
		Growth:    rule.Growth(u),
		Next:      rule.Apply(v, u),
	}, true
}
