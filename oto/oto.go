// Package oto plays the engine output on the speakers through oto.
package oto

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/psytec1x/looper"
)

type (
	// Output is a looper.AudioOutput backed by an oto context. Only one
	// Output can exist per process.
	Output struct {
		context    *oto.Context
		sampleRate int
	}

	renderReader struct {
		render func(buf looper.AudioBuffer) error
		buf    looper.AudioBuffer
	}
)

const defaultBufferSize = 40 * time.Millisecond

// NewOutput creates the oto context and waits until the audio device is
// ready.
func NewOutput(sampleRate int, bufferSize time.Duration) (*Output, error) {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Output{context: context, sampleRate: sampleRate}, nil
}

func (o *Output) SampleRate() int { return o.sampleRate }

// Play starts a player that pulls audio from render whenever the device
// needs more. Closing the returned player stops it.
func (o *Output) Play(render func(buf looper.AudioBuffer) error) io.Closer {
	p := o.context.NewPlayer(&renderReader{render: render})
	p.Play()
	return p
}

func (o *Output) Close() error {
	if err := o.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (r *renderReader) Read(b []byte) (int, error) {
	frames := len(b) / bytesPerFrame
	if cap(r.buf) < frames {
		r.buf = make(looper.AudioBuffer, frames)
	}
	r.buf = r.buf[:frames]
	if err := r.render(r.buf); err != nil {
		return 0, fmt.Errorf("cannot render audio: %w", err)
	}
	FloatBufferTo32BitLE(r.buf, b[:0])
	return frames * bytesPerFrame, nil
}
