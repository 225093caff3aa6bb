package looper

import (
	"io"
	"math"
)

type (
	// AudioBuffer is a buffer of stereo frames; element [i][0] is the left
	// channel and [i][1] the right channel of frame i.
	AudioBuffer [][2]float32

	// AudioOutput plays audio produced by a render callback. The callback is
	// called from the output's own goroutine whenever more frames are needed,
	// so it must not block on the control thread.
	AudioOutput interface {
		Play(render func(buf AudioBuffer) error) io.Closer
		SampleRate() int
		Close() error
	}
)

// Peak returns the largest absolute sample value of the buffer.
func (b AudioBuffer) Peak() float32 {
	var peak float32
	for _, f := range b {
		peak = max(peak, float32(math.Abs(float64(f[0]))), float32(math.Abs(float64(f[1]))))
	}
	return peak
}

// Append appends all frames of other to the buffer and returns the result.
func (b AudioBuffer) Append(other AudioBuffer) AudioBuffer {
	return append(b, other...)
}
