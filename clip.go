package looper

import (
	"errors"
	"fmt"
)

// Clip is a decoded, immutable multi-channel audio clip. A clip is never
// modified after construction; loading or recording new audio always
// produces a new Clip.
type Clip struct {
	channels   [][]float32
	sampleRate int
}

var (
	ErrNoChannels    = errors.New("clip has no channels")
	ErrChannelLength = errors.New("clip channels have different lengths")
	ErrSampleRate    = errors.New("clip sample rate must be positive")
	ErrEmptyClip     = errors.New("clip has no frames")
)

// NewClip creates a clip from planar channel data. The clip takes ownership
// of the slices; the caller must not modify them afterwards.
func NewClip(channels [][]float32, sampleRate int) (*Clip, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrSampleRate, sampleRate)
	}
	n := len(channels[0])
	for i, c := range channels[1:] {
		if len(c) != n {
			return nil, fmt.Errorf("%w: channel %d has %d frames, expected %d", ErrChannelLength, i+1, len(c), n)
		}
	}
	if n == 0 {
		return nil, ErrEmptyClip
	}
	return &Clip{channels: channels, sampleRate: sampleRate}, nil
}

// ClipFromBuffer creates a stereo clip from an interleaved stereo buffer.
func ClipFromBuffer(buf AudioBuffer, sampleRate int) (*Clip, error) {
	left := make([]float32, len(buf))
	right := make([]float32, len(buf))
	for i, f := range buf {
		left[i], right[i] = f[0], f[1]
	}
	return NewClip([][]float32{left, right}, sampleRate)
}

func (c *Clip) SampleRate() int  { return c.sampleRate }
func (c *Clip) NumChannels() int { return len(c.channels) }
func (c *Clip) NumFrames() int   { return len(c.channels[0]) }

// Duration returns the length of the clip in seconds.
func (c *Clip) Duration() float64 {
	return float64(c.NumFrames()) / float64(c.sampleRate)
}

// Channel returns the samples of channel i. The returned slice is shared
// with the clip and must be treated as read-only.
func (c *Clip) Channel(i int) []float32 {
	return c.channels[i]
}

// Frame returns frame i as a stereo pair. Mono clips are duplicated to both
// sides and channels beyond the second are ignored.
func (c *Clip) Frame(i int) [2]float32 {
	if len(c.channels) == 1 {
		v := c.channels[0][i]
		return [2]float32{v, v}
	}
	return [2]float32{c.channels[0][i], c.channels[1][i]}
}

// Buffer returns the clip as a newly allocated interleaved stereo buffer.
func (c *Clip) Buffer() AudioBuffer {
	ret := make(AudioBuffer, c.NumFrames())
	for i := range ret {
		ret[i] = c.Frame(i)
	}
	return ret
}
