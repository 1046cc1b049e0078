package main

import "github.com/pthm-cable/lenia/settings"

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Key     string // settings key
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the growth-band parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Key: settings.KeyGrowthCenter, Min: 0.05, Max: 0.35, Default: 0.15},
			{Key: settings.KeyGrowthWidth, Min: 0.003, Max: 0.06, Default: 0.015},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to the [0,1] search space.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize converts search-space values back to raw values, clamped to
// each parameter's bounds.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v := spec.Min + normalized[i]*(spec.Max-spec.Min)
		out[i] = min(max(v, spec.Min), spec.Max)
	}
	return out
}

// Values maps raw values onto their settings keys.
func (pv *ParamVector) Values(raw []float64) map[string]any {
	m := make(map[string]any, len(pv.Specs))
	for i, spec := range pv.Specs {
		m[spec.Key] = raw[i]
	}
	return m
}
