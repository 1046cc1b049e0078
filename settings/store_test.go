package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/lenia/kernels"
	"github.com/pthm-cable/lenia/renderer"
)

func TestOpenBackfillsMissingKeys(t *testing.T) {
	backend := NewMemoryBackend(map[string]any{
		KeyGrowthCenter: 0.2,
		"legacyWidget":  "keep-me",
	})
	s := Open(backend)
	s.Close()

	p := s.Params()
	if p.GrowthCenter != 0.2 {
		t.Errorf("GrowthCenter = %v, want 0.2", p.GrowthCenter)
	}
	if p.KernelRadius != 13 || p.KernelType != "gaussian" || p.CurrentPattern != "orbium" {
		t.Errorf("missing keys not backfilled: %+v", p)
	}

	saved := backend.Data()
	for _, k := range Keys() {
		if _, ok := saved[k]; !ok {
			t.Errorf("backfilled key %q not persisted", k)
		}
	}
	if saved["legacyWidget"] != "keep-me" {
		t.Errorf("unknown key not preserved: %v", saved["legacyWidget"])
	}
	if v, ok := s.Get("legacyWidget"); !ok || v != "keep-me" {
		t.Errorf("Get(legacyWidget) = %v, %v", v, ok)
	}
}

func TestOpenReplacesInvalidValues(t *testing.T) {
	s := Open(NewMemoryBackend(map[string]any{
		KeyGrowthWidth:  -1.0,
		KeyKernelRadius: "13",
		KeyEnableBloom:  "true",
	}))
	defer s.Close()

	p := s.Params()
	if p.GrowthWidth != 0.015 {
		t.Errorf("GrowthWidth = %v, want default 0.015", p.GrowthWidth)
	}
	if p.KernelRadius != 13 {
		t.Errorf("KernelRadius = %v, want 13", p.KernelRadius)
	}
	if !p.EnableBloom {
		t.Error("EnableBloom should parse from string")
	}
}

func TestDefaults(t *testing.T) {
	p := Defaults()
	want := Params{
		GrowthCenter: 0.15, GrowthWidth: 0.015, TimeScale: 1, KernelRadius: 13,
		KernelType: "gaussian", GridSize: 100, ColorScheme: 0, ResolutionFactor: 1,
		DitherAmount: 0.03, BloomIntensity: 0.5, BloomRadius: 4, BrushSize: 10,
		BrushIntensity: 0.8, CurrentPattern: "orbium",
	}
	if p != want {
		t.Errorf("Defaults() = %+v\nwant %+v", p, want)
	}
}

func TestSetValidates(t *testing.T) {
	s := Open(nil)
	defer s.Close()

	tests := []struct {
		key     string
		value   any
		wantErr error
	}{
		{"noSuchKey", 1, ErrUnknownParam},
		{KeyGrowthWidth, 0.0, ErrInvalidValue},
		{KeyGrowthCenter, 1.5, ErrInvalidValue},
		{KeyKernelRadius, "wide", ErrInvalidValue},
		{KeyBrushIntensity, 0, ErrInvalidValue},
		{KeyCurrentPattern, 42, ErrInvalidValue},
		{KeyGridSize, 300, nil},
		{KeyGridSize, "250", nil},
		{KeyKernelRadius, 12.6, nil},
		{KeyEnableDither, true, nil},
		{KeyKernelRadius, 1e300, ErrInvalidValue},
		{KeyGridSize, 1e300, ErrInvalidValue},
		{KeyBrushSize, -1e300, ErrInvalidValue},
		{KeyKernelRadius, 21, ErrInvalidValue},
		{KeyGridSize, 100000, ErrInvalidValue},
		{KeyColorScheme, 9, ErrInvalidValue},
		{KeyColorScheme, 4, nil},
	}
	for _, tt := range tests {
		err := s.Set(tt.key, tt.value)
		if tt.wantErr == nil && err != nil {
			t.Errorf("Set(%s, %v) unexpected error: %v", tt.key, tt.value, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("Set(%s, %v) err = %v, want %v", tt.key, tt.value, err, tt.wantErr)
		}
	}

	p := s.Params()
	if p.GridSize != 250 || p.KernelRadius != 13 || !p.EnableDither || p.ColorScheme != 4 || p.BrushSize != 10 {
		t.Errorf("unexpected params after sets: %+v", p)
	}
}

func TestSetNotifiesAndPersists(t *testing.T) {
	backend := NewMemoryBackend(nil)
	s := Open(backend)

	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	if err := s.Set(KeyKernelType, "ring"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyKernelType, "ring"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	if len(changes) != 1 {
		t.Fatalf("observer calls = %d, want 1 (repeat set is a no-op)", len(changes))
	}
	if c := changes[0]; c.Key != KeyKernelType || c.Old != "gaussian" || c.New != "ring" {
		t.Errorf("change = %+v", c)
	}
	if got := backend.Data()[KeyKernelType]; got != "ring" {
		t.Errorf("persisted kernelType = %v, want ring", got)
	}
}

func TestResetToDefaults(t *testing.T) {
	s := Open(nil)
	defer s.Close()

	_ = s.Set(KeyGrowthCenter, 0.3)
	_ = s.Set(KeyColorScheme, 3)

	var keys []string
	s.Subscribe(func(c Change) { keys = append(keys, c.Key) })
	s.ResetToDefaults()

	if s.Params() != Defaults() {
		t.Errorf("params after reset = %+v", s.Params())
	}
	if len(keys) != 2 {
		t.Errorf("reset notified %v, want exactly the two changed keys", keys)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lenia", "settings.yaml")

	s := Open(FileBackend{Path: path})
	if err := s.Set(KeyBloomRadius, 6.5); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened := Open(FileBackend{Path: path})
	defer reopened.Close()
	if got := reopened.Params().BloomRadius; got != 6.5 {
		t.Errorf("BloomRadius after reopen = %v, want 6.5", got)
	}
}

func TestCloseFlushesLatestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	// Back-to-back writes coalesce; Close must still write the last one.
	s := Open(FileBackend{Path: path})
	if err := s.Set(KeyKernelType, "ring"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyCurrentPattern, "glider"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened := Open(FileBackend{Path: path})
	defer reopened.Close()
	p := reopened.Params()
	if p.KernelType != "ring" || p.CurrentPattern != "glider" {
		t.Errorf("after reopen kernel=%q pattern=%q, want ring/glider", p.KernelType, p.CurrentPattern)
	}
}

func TestFileBackendCorruptFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	s := Open(FileBackend{Path: path})
	defer s.Close()
	if s.Params() != Defaults() {
		t.Errorf("corrupt settings should yield defaults, got %+v", s.Params())
	}
}

func TestProfileExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")

	src := Open(nil)
	_ = src.Set(KeyKernelType, "fractal")
	_ = src.Set(KeyTimeScale, 0.5)
	if err := src.ExportProfile(path); err != nil {
		t.Fatal(err)
	}
	src.Close()

	dst := Open(nil)
	defer dst.Close()
	if err := dst.ImportProfile(path); err != nil {
		t.Fatal(err)
	}
	p := dst.Params()
	if p.KernelType != "fractal" || p.TimeScale != 0.5 {
		t.Errorf("imported params = %+v", p)
	}
}

func TestIntBoundsTrackLibraries(t *testing.T) {
	s := Open(nil)
	defer s.Close()

	if err := s.Set(KeyKernelRadius, kernels.MaxRadius); err != nil {
		t.Errorf("kernelRadius=%d rejected: %v", kernels.MaxRadius, err)
	}
	if err := s.Set(KeyKernelRadius, kernels.MaxRadius+1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("kernelRadius=%d err = %v, want ErrInvalidValue", kernels.MaxRadius+1, err)
	}
	if err := s.Set(KeyColorScheme, renderer.NumSchemes-1); err != nil {
		t.Errorf("colorScheme=%d rejected: %v", renderer.NumSchemes-1, err)
	}
	if err := s.Set(KeyColorScheme, renderer.NumSchemes); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("colorScheme=%d err = %v, want ErrInvalidValue", renderer.NumSchemes, err)
	}
}
