package main

import (
	"io"
	"log/slog"
	"maps"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/session"
	"github.com/pthm-cable/lenia/settings"
	"github.com/pthm-cable/lenia/telemetry"
)

// maxMassFrac is the share of the grid a live pattern may fill before the
// run counts as a takeover.
const maxMassFrac = 0.5

// minMass is the mass below which a run counts as extinct.
const minMass = 1.0

// FitnessEvaluator runs headless sessions and scores how long the pattern
// stays inside the live mass band.
type FitnessEvaluator struct {
	params   *ParamVector
	maxTicks int64
	seeds    []int64
	base     map[string]any // fixed settings: kernel, pattern, grid size
	cfg      *config.Config

	mu          sync.Mutex
	lastQuality float64
}

// NewFitnessEvaluator creates an evaluator. base holds the settings that are
// not searched.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, cfg *config.Config, base map[string]any) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		maxTicks: maxTicks,
		seeds:    seeds,
		base:     base,
		cfg:      cfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

type runResult struct {
	survivalTicks int64
	windows       []telemetry.WindowStats
}

// Evaluate scores raw parameter values (lower is better). Seeds run
// concurrently.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var g errgroup.Group
	for i, seed := range fe.seeds {
		g.Go(func() error {
			r, err := fe.run(raw, seed)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("evaluation failed", "error", err)
		return 0
	}

	survival := make([]float64, len(results))
	quality := make([]float64, len(results))
	for i, r := range results {
		survival[i] = float64(r.survivalTicks) / float64(fe.maxTicks)
		quality[i] = spread(r.windows)
	}
	meanSurvival := stat.Mean(survival, nil)
	meanQuality := stat.Mean(quality, nil)

	fe.mu.Lock()
	fe.lastQuality = meanQuality
	fe.mu.Unlock()

	return -meanSurvival * (1 + 0.2*meanQuality)
}

// run steps one session until the mass leaves the live band or maxTicks.
func (fe *FitnessEvaluator) run(raw []float64, seed int64) (runResult, error) {
	cfg := *fe.cfg
	cfg.Engine.Seed = seed

	values := maps.Clone(fe.base)
	maps.Copy(values, fe.params.Values(raw))
	store := settings.Open(settings.NewMemoryBackend(values))
	defer store.Close()

	var result runResult
	sess, err := session.New(&cfg, store, session.Options{
		StatsCallback: func(ws telemetry.WindowStats) {
			result.windows = append(result.windows, ws)
		},
	})
	if err != nil {
		return result, err
	}
	defer sess.Close()

	w, h := sess.Size()
	maxMass := maxMassFrac * float64(w*h)
	for sess.Tick() < fe.maxTicks {
		if err := sess.Frame(); err != nil {
			return result, err
		}
		if m := sess.Mass(); m < minMass || m > maxMass {
			break
		}
	}
	result.survivalTicks = sess.Tick()
	return result, nil
}

// spread is the mean P90-P10 state spread over the windows: near 0 for
// empty or uniform fields, larger for structured patterns.
func spread(windows []telemetry.WindowStats) float64 {
	if len(windows) == 0 {
		return 0
	}
	s := make([]float64, len(windows))
	for i, w := range windows {
		s[i] = w.P90 - w.P10
	}
	return stat.Mean(s, nil)
}

// quietLogger drops session chatter below warnings.
func quietLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
