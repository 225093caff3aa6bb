package looper_test

import (
	"errors"
	"testing"

	"github.com/psytec1x/looper"
)

func TestEffectParamsWith(t *testing.T) {
	tests := []struct {
		kind  looper.EffectKind
		value float64
		want  float64
	}{
		{looper.FilterCutoff, 1000, 1000},
		{looper.FilterCutoff, 5, looper.MinCutoffHz},
		{looper.FilterCutoff, 1e6, looper.MaxCutoffHz},
		{looper.DelayMix, 0.5, 0.5},
		{looper.DelayMix, -1, 0},
		{looper.ReverbMix, 2, 1},
	}
	for _, tt := range tests {
		p, err := looper.DefaultEffectParams().With(tt.kind, tt.value)
		if err != nil {
			t.Fatalf("With(%v, %v) failed: %v", tt.kind, tt.value, err)
		}
		if got := p.Get(tt.kind); got != tt.want {
			t.Errorf("With(%v, %v): got %v, want %v", tt.kind, tt.value, got, tt.want)
		}
	}
	if _, err := looper.DefaultEffectParams().With(looper.NumEffectKinds, 1); !errors.Is(err, looper.ErrUnknownEffect) {
		t.Errorf("expected ErrUnknownEffect, got %v", err)
	}
}

func TestParseEffectKind(t *testing.T) {
	for k := looper.EffectKind(0); k < looper.NumEffectKinds; k++ {
		got, err := looper.ParseEffectKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseEffectKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := looper.ParseEffectKind("chorus"); err == nil {
		t.Error("expected an error for an unknown effect")
	}
}

func TestTempoDisplay(t *testing.T) {
	own := looper.Tempo{BPM: 90}
	if got := own.Display(128); got != 90 {
		t.Errorf("independent tempo shows %v, want 90", got)
	}
	follow := looper.Tempo{FollowMaster: true, BPM: 90}
	if got := follow.Display(128); got != 128 {
		t.Errorf("following tempo shows %v, want 128", got)
	}
	if got := looper.ClampBPM(500); got != looper.MaxBPM {
		t.Errorf("ClampBPM(500) = %v", got)
	}
}
