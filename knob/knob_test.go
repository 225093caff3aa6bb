package knob_test

import (
	"math"
	"testing"

	"github.com/psytec1x/looper/knob"
)

func TestStepRounding(t *testing.T) {
	k := knob.Knob{Min: 60, Max: 200, Step: 1}
	if got := k.Quantize(137.6); got != 138 {
		t.Errorf("Quantize(137.6) = %v, want 138", got)
	}
	var d knob.Drag
	d.Begin(k, knob.Point{X: 10, Y: 100}, knob.Pointer, 120)
	// 17.6 / 140 * 200 pixels upwards computes 137.6
	v, ok := d.Update(knob.Point{X: 10, Y: 100 - 17.6/140*200})
	if !ok || v != 138 {
		t.Errorf("drag gave %v, %v; want 138", v, ok)
	}
}

func TestValueStaysInRange(t *testing.T) {
	k := knob.Knob{Min: 20, Max: 20000}
	for _, delta := range []float64{-1e6, -300, -1, 0, 1, 300, 1e6} {
		for _, start := range []float64{20, 1000, 20000} {
			v := k.Value(start, delta)
			if v < k.Min || v > k.Max || math.IsNaN(v) {
				t.Errorf("Value(%v, %v) = %v out of range", start, delta, v)
			}
		}
	}
	if got := k.Value(20, -200); got != 20000 {
		t.Errorf("a full sensitivity drag should sweep the range, got %v", got)
	}
}

func TestTouchUsesDominantAxis(t *testing.T) {
	k := knob.Knob{Min: 0, Max: 1, Sensitivity: 100}
	tests := []struct {
		name  string
		input knob.Input
		to    knob.Point
		want  float64
	}{
		{"pointer ignores horizontal", knob.Pointer, knob.Point{X: 50, Y: 0}, 0.5},
		{"pointer up", knob.Pointer, knob.Point{X: 0, Y: -20}, 0.7},
		{"touch right increases", knob.Touch, knob.Point{X: 20, Y: 5}, 0.7},
		{"touch left decreases", knob.Touch, knob.Point{X: -20, Y: 5}, 0.3},
		{"touch vertical wins", knob.Touch, knob.Point{X: 5, Y: 30}, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d knob.Drag
			d.Begin(k, knob.Point{}, tt.input, 0.5)
			v, _ := d.Update(tt.to)
			if math.Abs(v-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", v, tt.want)
			}
		})
	}
}

func TestNoUpdatesAfterEnd(t *testing.T) {
	var d knob.Drag
	if _, ok := d.Update(knob.Point{Y: -10}); ok {
		t.Error("update without a drag")
	}
	d.Begin(knob.Knob{Min: 0, Max: 1}, knob.Point{}, knob.Pointer, 0)
	d.End()
	if _, ok := d.Update(knob.Point{Y: -10}); ok {
		t.Error("update after End")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		knob  knob.Knob
		value float64
		want  string
	}{
		{knob.Knob{Min: 20, Max: 20000}, 1234.56, "1235"},
		{knob.Knob{Min: 60, Max: 200}, 137.62, "137.6"},
		{knob.Knob{Min: 0, Max: 1}, 0.456, "0.46"},
	}
	for _, tt := range tests {
		if got := tt.knob.Format(tt.value); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
