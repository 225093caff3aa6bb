package engine

import (
	"errors"
	"math"

	"github.com/psytec1x/looper"
)

type (
	// BufferSource plays a clip, optionally looping a part of it. A source can
	// be started only once.
	BufferSource struct {
		node
		clip      *looper.Clip
		loop      bool
		loopStart float64
		loopEnd   float64
		state     sourceState
		pos       float64 // read position, in clip frames
		step      float64
	}

	sourceState int
)

const (
	sourceUnscheduled sourceState = iota
	sourcePlaying
	sourceStopped
)

var (
	ErrSourceStarted    = errors.New("buffer source can only be started once")
	ErrSourceNotStarted = errors.New("buffer source has not been started")
)

// NewBufferSource creates a source for the clip. Clips with a sample rate
// different from the context are resampled with linear interpolation.
func (c *Context) NewBufferSource(clip *looper.Clip) *BufferSource {
	s := &BufferSource{clip: clip, step: float64(clip.SampleRate()) / float64(c.sampleRate)}
	s.init(c, KindBufferSource, s)
	return s
}

// SetLoop enables or disables looping between start and end, given in
// seconds. Out of range bounds fall back to the whole clip.
func (s *BufferSource) SetLoop(loop bool, start, end float64) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.loop = loop
	s.loopStart = start
	s.loopEnd = end
}

// Start begins playback at offset seconds into the clip.
func (s *BufferSource) Start(offset float64) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	if s.state != sourceUnscheduled {
		return ErrSourceStarted
	}
	s.pos = max(offset, 0) * float64(s.clip.SampleRate())
	s.state = sourcePlaying
	return nil
}

// Stop ends playback for good. Stopping a source that was never started
// returns ErrSourceNotStarted; stopping it again is a no-op.
func (s *BufferSource) Stop() error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	if s.state == sourceUnscheduled {
		return ErrSourceNotStarted
	}
	s.state = sourceStopped
	return nil
}

// Playing reports whether the source is producing sound.
func (s *BufferSource) Playing() bool {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return s.state == sourcePlaying
}

func (s *BufferSource) loopBounds() (lo, hi float64) {
	n := float64(s.clip.NumFrames())
	sr := float64(s.clip.SampleRate())
	lo, hi = s.loopStart*sr, s.loopEnd*sr
	if !(hi > 0 && hi <= n) {
		hi = n
	}
	if !(lo >= 0 && lo < hi) {
		lo = 0
	}
	return lo, hi
}

func (s *BufferSource) process(_, out Block) {
	if s.state != sourcePlaying {
		clear(out[0])
		clear(out[1])
		return
	}
	n := float64(s.clip.NumFrames())
	lo, hi := 0.0, n
	if s.loop {
		lo, hi = s.loopBounds()
	}
	for i := 0; i < Quantum; i++ {
		if s.pos >= hi {
			if !s.loop {
				s.state = sourceStopped
				clear(out[0][i:])
				clear(out[1][i:])
				return
			}
			s.pos = lo + math.Mod(s.pos-hi, hi-lo)
		}
		f := s.sample(lo, hi)
		out[0][i], out[1][i] = f[0], f[1]
		s.pos += s.step
	}
}

func (s *BufferSource) sample(lo, hi float64) [2]float32 {
	i0 := int(s.pos)
	frac := float32(s.pos - float64(i0))
	a := s.clip.Frame(i0)
	if frac == 0 {
		return a
	}
	i1 := i0 + 1
	if float64(i1) >= hi {
		if !s.loop {
			return a
		}
		i1 = int(lo)
	}
	b := s.clip.Frame(i1)
	return [2]float32{a[0] + (b[0]-a[0])*frac, a[1] + (b[1]-a[1])*frac}
}
