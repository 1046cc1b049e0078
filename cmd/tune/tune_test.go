package main

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/settings"
	"github.com/pthm-cable/lenia/telemetry"
)

func TestParamVectorNormalize(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-12 {
			t.Errorf("param %s: round trip %v, want %v", pv.Specs[i].Key, back[i], def[i])
		}
	}

	clamped := pv.Denormalize([]float64{-1, 2})
	if clamped[0] != pv.Specs[0].Min || clamped[1] != pv.Specs[1].Max {
		t.Errorf("out-of-range search values = %v, want clamped to bounds", clamped)
	}
}

func TestSpread(t *testing.T) {
	if got := spread(nil); got != 0 {
		t.Errorf("spread(nil) = %v", got)
	}
	ws := []telemetry.WindowStats{{P10: 0, P90: 0.5}, {P10: 0.1, P90: 0.3}}
	if got := spread(ws); math.Abs(got-0.35) > 1e-12 {
		t.Errorf("spread = %v, want 0.35", got)
	}
}

func TestEvaluateShortRun(t *testing.T) {
	cfg := config.Defaults()
	cfg.Derived.Workers = 1
	cfg.Screen.Width, cfg.Screen.Height = 32, 32
	cfg.Telemetry.StatsWindow = 2

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 6, []int64{1, 2}, cfg, map[string]any{
		settings.KeyGridSize:       32,
		settings.KeyCurrentPattern: "orbium",
	})
	fitness := fe.Evaluate(pv.DefaultVector())
	if fitness > 0 || fitness < -1.2 {
		t.Errorf("fitness = %v, want within [-1.2, 0]", fitness)
	}
	if q := fe.LastQuality(); q < 0 || q > 1 {
		t.Errorf("quality = %v, want within [0, 1]", q)
	}
}

func TestWriteProfileIsImportable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best.yaml")
	base := map[string]any{settings.KeyKernelType: "ring", settings.KeyGridSize: 64}
	tuned := map[string]any{settings.KeyGrowthCenter: 0.21, settings.KeyGrowthWidth: 0.02}
	if err := writeProfile(path, base, tuned); err != nil {
		t.Fatal(err)
	}

	store := settings.Open(nil)
	defer store.Close()
	if err := store.ImportProfile(path); err != nil {
		t.Fatal(err)
	}
	p := store.Params()
	if p.KernelType != "ring" || p.GridSize != 64 || p.GrowthCenter != 0.21 || p.GrowthWidth != 0.02 {
		t.Errorf("imported params = %+v", p)
	}
}
