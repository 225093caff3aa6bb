package waveform

import (
	"math"

	"github.com/psytec1x/looper"
)

type (
	// Mapping converts between horizontal pixel offsets and clip time. The
	// offset 0 is the start of the clip and Width its end.
	Mapping struct {
		Width    float32
		Duration float64
	}

	// PointerID identifies the pointer (mouse or one touch point) that is
	// dragging.
	PointerID int

	// Selection is the drag state machine for choosing a loop region. A drag
	// starts with Begin, produces candidate regions with Update and finishes
	// with End, which reports whether the drag was long enough to commit.
	// Only the pointer that started the drag is followed.
	Selection struct {
		// Threshold is the minimum length in seconds of a committed region;
		// zero means CommitThreshold.
		Threshold float64

		dragging bool
		id       PointerID
		start    float64
		current  float64
	}
)

// CommitThreshold is the default minimum drag length in seconds. Shorter
// drags are treated as clicks.
const CommitThreshold = 0.01

// thresholdEpsilon keeps drags of exactly the threshold, give or take
// rounding, from committing.
const thresholdEpsilon = 1e-9

// Time returns the clip time at pixel offset x, clamped to the clip.
func (m Mapping) Time(x float32) float64 {
	if m.Width <= 0 {
		return 0
	}
	rel := min(max(float64(x)/float64(m.Width), 0), 1)
	return rel * m.Duration
}

// X returns the pixel offset of clip time t.
func (m Mapping) X(t float64) float32 {
	if m.Duration <= 0 {
		return 0
	}
	return float32(t / m.Duration * float64(m.Width))
}

// Begin starts a drag at time t. It returns false if another pointer is
// already dragging.
func (s *Selection) Begin(id PointerID, t float64) bool {
	if s.dragging && s.id != id {
		return false
	}
	s.dragging = true
	s.id = id
	s.start = t
	s.current = t
	return true
}

// Update moves the drag to time t and returns the candidate region.
func (s *Selection) Update(id PointerID, t float64) (looper.LoopRegion, bool) {
	if !s.dragging || id != s.id {
		return looper.LoopRegion{}, false
	}
	s.current = t
	return s.Candidate()
}

// End finishes the drag at time t. The region is returned with ok = true
// only if it is longer than the threshold; otherwise the drag was a click
// and nothing should change.
func (s *Selection) End(id PointerID, t float64) (region looper.LoopRegion, ok bool) {
	if !s.dragging || id != s.id {
		return looper.LoopRegion{}, false
	}
	s.current = t
	region, _ = s.Candidate()
	s.dragging = false
	threshold := s.Threshold
	if threshold == 0 {
		threshold = CommitThreshold
	}
	if math.Abs(s.current-s.start) <= threshold+thresholdEpsilon {
		return looper.LoopRegion{}, false
	}
	return region, true
}

// Cancel abandons the drag without committing.
func (s *Selection) Cancel() {
	s.dragging = false
}

func (s *Selection) Dragging() bool { return s.dragging }

// Candidate returns the region currently covered by the drag.
func (s *Selection) Candidate() (looper.LoopRegion, bool) {
	if !s.dragging {
		return looper.LoopRegion{}, false
	}
	return looper.LoopRegion{Start: min(s.start, s.current), End: max(s.start, s.current)}, true
}
