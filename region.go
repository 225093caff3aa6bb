package looper

import (
	"errors"
	"math"
)

// LoopRegion is the part of a clip that is played in a loop, in seconds.
// A valid region satisfies 0 <= Start < End <= duration of the clip.
type LoopRegion struct {
	Start float64
	End   float64
}

var ErrEmptyRegion = errors.New("loop region is empty")

// FullRegion returns the region covering the whole clip.
func FullRegion(c *Clip) LoopRegion {
	return LoopRegion{Start: 0, End: c.Duration()}
}

// ClampRegion clamps start and end into [0, duration]. An inverted range is
// swapped. If nothing remains of the range, ErrEmptyRegion is returned.
func ClampRegion(start, end, duration float64) (LoopRegion, error) {
	if math.IsNaN(start) || math.IsNaN(end) || !(duration > 0) {
		return LoopRegion{}, ErrEmptyRegion
	}
	if start > end {
		start, end = end, start
	}
	start = min(max(start, 0), duration)
	end = min(max(end, 0), duration)
	if !(start < end) {
		return LoopRegion{}, ErrEmptyRegion
	}
	return LoopRegion{Start: start, End: end}, nil
}

func (r LoopRegion) Length() float64 { return r.End - r.Start }

// Valid reports whether the region is a non-empty sub-interval of
// [0, duration].
func (r LoopRegion) Valid(duration float64) bool {
	return 0 <= r.Start && r.Start < r.End && r.End <= duration
}
