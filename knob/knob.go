// Package knob implements the drag interaction of a rotary parameter knob:
// dragging changes the value proportionally to the distance moved.
package knob

import (
	"math"
	"strconv"
)

type (
	// Knob describes the value range of a control. Step quantizes the value
	// when non-zero. Sensitivity is the drag distance, in pixels, that sweeps
	// the whole range; zero means DefaultSensitivity.
	Knob struct {
		Min, Max    float64
		Step        float64
		Sensitivity float64
	}

	// Input is the kind of device driving a drag.
	Input int

	// Point is a pointer position in pixels, y growing downwards.
	Point struct {
		X, Y float32
	}

	// Drag is the state machine of one knob drag: Begin records where the
	// drag started, Update turns the current position into a value and End
	// stops producing values until the next Begin.
	Drag struct {
		knob       Knob
		active     bool
		input      Input
		start      Point
		startValue float64
	}
)

const (
	Pointer Input = iota
	Touch
)

const DefaultSensitivity = 200

func (k Knob) Clamp(v float64) float64 {
	return min(max(v, k.Min), k.Max)
}

// Quantize rounds v to the nearest multiple of Step and clamps it.
func (k Knob) Quantize(v float64) float64 {
	if k.Step != 0 {
		v = math.Round(v/k.Step) * k.Step
	}
	return k.Clamp(v)
}

// Value returns the value after moving delta pixels from startValue.
// Negative deltas (upwards) increase the value.
func (k Knob) Value(startValue, delta float64) float64 {
	sensitivity := k.Sensitivity
	if sensitivity == 0 {
		sensitivity = DefaultSensitivity
	}
	v := k.Clamp(startValue - delta/sensitivity*(k.Max-k.Min))
	return k.Quantize(v)
}

// Fraction returns the position of v within the range, from 0 to 1.
func (k Knob) Fraction(v float64) float64 {
	if k.Max == k.Min {
		return 0
	}
	return (k.Clamp(v) - k.Min) / (k.Max - k.Min)
}

// Format formats v with a precision that depends on the size of the range:
// no decimals for ranges of at least 1000, one decimal for at least 10 and
// two otherwise.
func (k Knob) Format(v float64) string {
	r := k.Max - k.Min
	switch {
	case r >= 1000:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case r >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Begin starts a drag of knob k at pos, with the knob currently at value.
func (d *Drag) Begin(k Knob, pos Point, input Input, value float64) {
	*d = Drag{knob: k, active: true, input: input, start: pos, startValue: value}
}

// Update returns the value for the current position. ok is false if no drag
// is in progress.
func (d *Drag) Update(pos Point) (value float64, ok bool) {
	if !d.active {
		return 0, false
	}
	return d.knob.Value(d.startValue, float64(d.delta(pos))), true
}

// delta is the vertical distance for pointers. For touch, whichever axis
// moved more wins, with horizontal movement inverted so that dragging right
// increases the value.
func (d *Drag) delta(pos Point) float32 {
	dx, dy := pos.X-d.start.X, pos.Y-d.start.Y
	if d.input == Touch && abs(dx) > abs(dy) {
		return -dx
	}
	return dy
}

func (d *Drag) End()         { d.active = false }
func (d *Drag) Active() bool { return d.active }
func (d *Drag) Input() Input { return d.input }

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
