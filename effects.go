package looper

import (
	"errors"
	"fmt"
	"math"
)

type (
	// EffectKind identifies one of the per-track effect parameters.
	EffectKind int

	// EffectParams holds the per-track effect settings. It is a plain value;
	// changing a parameter produces a new EffectParams.
	EffectParams struct {
		FilterCutoffHz float64 `yaml:"cutoff"`
		DelayMix       float64 `yaml:"delay"`
		ReverbMix      float64 `yaml:"reverb"`
	}

	// Range is a closed interval of parameter values.
	Range struct {
		Min, Max float64
	}
)

const (
	FilterCutoff EffectKind = iota
	DelayMix
	ReverbMix
	NumEffectKinds
)

const (
	MinCutoffHz = 20
	MaxCutoffHz = 20000
)

var ErrUnknownEffect = errors.New("unknown effect kind")

var effectNames = [NumEffectKinds]string{"cutoff", "delay", "reverb"}

func (k EffectKind) String() string {
	if k < 0 || k >= NumEffectKinds {
		return fmt.Sprintf("EffectKind(%d)", int(k))
	}
	return effectNames[k]
}

// Range returns the allowed values of the parameter.
func (k EffectKind) Range() Range {
	if k == FilterCutoff {
		return Range{MinCutoffHz, MaxCutoffHz}
	}
	return Range{0, 1}
}

func (r Range) Clamp(v float64) float64 { return min(max(v, r.Min), r.Max) }

// ParseEffectKind returns the kind with the given name, as returned by
// String.
func ParseEffectKind(name string) (EffectKind, error) {
	for i, n := range effectNames {
		if n == name {
			return EffectKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}

// DefaultEffectParams has the filter fully open and no delay or reverb.
func DefaultEffectParams() EffectParams {
	return EffectParams{FilterCutoffHz: MaxCutoffHz}
}

func (p EffectParams) Get(k EffectKind) float64 {
	switch k {
	case FilterCutoff:
		return p.FilterCutoffHz
	case DelayMix:
		return p.DelayMix
	case ReverbMix:
		return p.ReverbMix
	}
	return 0
}

// With returns a copy of p with parameter k set to v, clamped to the range
// of k.
func (p EffectParams) With(k EffectKind, v float64) (EffectParams, error) {
	if math.IsNaN(v) {
		return p, fmt.Errorf("effect %v: value is NaN", k)
	}
	v = k.Range().Clamp(v)
	switch k {
	case FilterCutoff:
		p.FilterCutoffHz = v
	case DelayMix:
		p.DelayMix = v
	case ReverbMix:
		p.ReverbMix = v
	default:
		return p, fmt.Errorf("%w: %d", ErrUnknownEffect, int(k))
	}
	return p, nil
}
