// Package settings holds the live simulation parameter set. Every change goes
// through Store.Set, which validates the value, notifies observers and queues
// a persistence write.
package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parameter keys.
const (
	KeyGrowthCenter     = "growthCenter"
	KeyGrowthWidth      = "growthWidth"
	KeyTimeScale        = "timeScale"
	KeyKernelRadius     = "kernelRadius"
	KeyKernelType       = "kernelType"
	KeyGridSize         = "gridSize"
	KeyColorScheme      = "colorScheme"
	KeyResolutionFactor = "resolutionFactor"
	KeyEnableDither     = "enableDither"
	KeyDitherAmount     = "ditherAmount"
	KeyEnableBloom      = "enableBloom"
	KeyBloomIntensity   = "bloomIntensity"
	KeyBloomRadius      = "bloomRadius"
	KeyBrushSize        = "brushSize"
	KeyBrushIntensity   = "brushIntensity"
	KeyCurrentPattern   = "currentPattern"
)

var (
	ErrUnknownParam = errors.New("unknown parameter")
	ErrInvalidValue = errors.New("invalid parameter value")
)

type kind int

const (
	kindFloat kind = iota
	kindInt
	kindBool
	kindString
)

// Integer bounds. maxKernelRadius mirrors kernels.MaxRadius and
// numColorSchemes mirrors renderer.NumSchemes; both packages sit above this
// one in the import graph.
const (
	maxKernelRadius = 20
	maxGridSize     = 2000
	maxBrushSize    = 500
	numColorSchemes = 5
)

// paramSpec describes one key: its type, default and accepted range.
type paramSpec struct {
	key      string
	kind     kind
	def      any
	min, max float64
	minOpen  bool // min itself is excluded
}

var specs = []paramSpec{
	{key: KeyGrowthCenter, kind: kindFloat, def: 0.15, min: 0, max: 1},
	{key: KeyGrowthWidth, kind: kindFloat, def: 0.015, min: 0, max: math.Inf(1), minOpen: true},
	{key: KeyTimeScale, kind: kindFloat, def: 1.0, min: 0, max: math.Inf(1), minOpen: true},
	{key: KeyKernelRadius, kind: kindInt, def: 13, min: 1, max: maxKernelRadius},
	{key: KeyKernelType, kind: kindString, def: "gaussian"},
	{key: KeyGridSize, kind: kindInt, def: 100, min: 1, max: maxGridSize},
	{key: KeyColorScheme, kind: kindInt, def: 0, min: 0, max: numColorSchemes - 1},
	{key: KeyResolutionFactor, kind: kindFloat, def: 1.0, min: 0, max: math.Inf(1), minOpen: true},
	{key: KeyEnableDither, kind: kindBool, def: false},
	{key: KeyDitherAmount, kind: kindFloat, def: 0.03, min: 0, max: math.Inf(1)},
	{key: KeyEnableBloom, kind: kindBool, def: false},
	{key: KeyBloomIntensity, kind: kindFloat, def: 0.5, min: 0, max: math.Inf(1)},
	{key: KeyBloomRadius, kind: kindFloat, def: 4.0, min: 0, max: math.Inf(1), minOpen: true},
	{key: KeyBrushSize, kind: kindInt, def: 10, min: 1, max: maxBrushSize},
	{key: KeyBrushIntensity, kind: kindFloat, def: 0.8, min: 0, max: 1, minOpen: true},
	{key: KeyCurrentPattern, kind: kindString, def: "orbium"},
}

var specByKey = func() map[string]*paramSpec {
	m := make(map[string]*paramSpec, len(specs))
	for i := range specs {
		m[specs[i].key] = &specs[i]
	}
	return m
}()

// Keys returns every parameter key in declaration order.
func Keys() []string {
	keys := make([]string, len(specs))
	for i, s := range specs {
		keys[i] = s.key
	}
	return keys
}

// Default returns the default value of key.
func Default(key string) (any, bool) {
	s, ok := specByKey[key]
	if !ok {
		return nil, false
	}
	return s.def, true
}

// coerce converts raw into the canonical Go type for the key and checks its range.
func (s *paramSpec) coerce(raw any) (any, error) {
	switch s.kind {
	case kindFloat:
		f, ok := toFloat(raw)
		if !ok || math.IsNaN(f) {
			return nil, fmt.Errorf("%w: %s wants a number, got %v", ErrInvalidValue, s.key, raw)
		}
		if err := s.checkRange(f); err != nil {
			return nil, err
		}
		return f, nil
	case kindInt:
		f, ok := toFloat(raw)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %s wants an integer, got %v", ErrInvalidValue, s.key, raw)
		}
		f = math.Round(f)
		if f < math.MinInt32 || f > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %s=%v overflows an integer", ErrInvalidValue, s.key, f)
		}
		if err := s.checkRange(f); err != nil {
			return nil, err
		}
		return int(f), nil
	case kindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%w: %s wants a bool, got %q", ErrInvalidValue, s.key, v)
			}
			return b, nil
		}
		if f, ok := toFloat(raw); ok {
			return f != 0, nil
		}
		return nil, fmt.Errorf("%w: %s wants a bool, got %v", ErrInvalidValue, s.key, raw)
	case kindString:
		v, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants a string, got %v", ErrInvalidValue, s.key, raw)
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidValue, s.key)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownParam, s.key)
}

func (s *paramSpec) checkRange(f float64) error {
	if f < s.min || (s.minOpen && f == s.min) || f > s.max {
		return fmt.Errorf("%w: %s=%v out of range", ErrInvalidValue, s.key, f)
	}
	return nil
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// Params is a typed snapshot of every parameter.
type Params struct {
	GrowthCenter     float64
	GrowthWidth      float64
	TimeScale        float64
	KernelRadius     int
	KernelType       string
	GridSize         int
	ColorScheme      int
	ResolutionFactor float64
	EnableDither     bool
	DitherAmount     float64
	EnableBloom      bool
	BloomIntensity   float64
	BloomRadius      float64
	BrushSize        int
	BrushIntensity   float64
	CurrentPattern   string
}

// Defaults returns the default parameter set.
func Defaults() Params {
	return paramsFrom(defaultValues())
}

func defaultValues() map[string]any {
	m := make(map[string]any, len(specs))
	for _, s := range specs {
		m[s.key] = s.def
	}
	return m
}

func paramsFrom(v map[string]any) Params {
	return Params{
		GrowthCenter:     v[KeyGrowthCenter].(float64),
		GrowthWidth:      v[KeyGrowthWidth].(float64),
		TimeScale:        v[KeyTimeScale].(float64),
		KernelRadius:     v[KeyKernelRadius].(int),
		KernelType:       v[KeyKernelType].(string),
		GridSize:         v[KeyGridSize].(int),
		ColorScheme:      v[KeyColorScheme].(int),
		ResolutionFactor: v[KeyResolutionFactor].(float64),
		EnableDither:     v[KeyEnableDither].(bool),
		DitherAmount:     v[KeyDitherAmount].(float64),
		EnableBloom:      v[KeyEnableBloom].(bool),
		BloomIntensity:   v[KeyBloomIntensity].(float64),
		BloomRadius:      v[KeyBloomRadius].(float64),
		BrushSize:        v[KeyBrushSize].(int),
		BrushIntensity:   v[KeyBrushIntensity].(float64),
		CurrentPattern:   v[KeyCurrentPattern].(string),
	}
}
