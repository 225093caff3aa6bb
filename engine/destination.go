package engine

import "github.com/psytec1x/looper"

type (
	// Destination is the speaker output of a context.
	Destination struct {
		node
	}

	// StreamDestination captures everything connected to it and hands each
	// rendered quantum to a sink. It is used as the recording bus.
	StreamDestination struct {
		node
		sink   func(looper.AudioBuffer)
		frames looper.AudioBuffer
	}
)

func (d *Destination) process(in, out Block) {
	copy(out[0], in[0])
	copy(out[1], in[1])
}

// NewStreamDestination creates a stream destination that is rendered
// together with the speaker destination every quantum.
func (c *Context) NewStreamDestination() *StreamDestination {
	s := &StreamDestination{frames: make(looper.AudioBuffer, Quantum)}
	s.init(c, KindStreamDestination, s)
	c.mu.Lock()
	c.streams = append(c.streams, s)
	c.mu.Unlock()
	return s
}

// SetSink sets the function receiving the rendered audio, or nil to discard
// it. The sink is called from the rendering goroutine with the context
// locked: it must copy the buffer if it keeps it and must not call back into
// the context.
func (s *StreamDestination) SetSink(sink func(looper.AudioBuffer)) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.sink = sink
}

func (s *StreamDestination) process(in, out Block) {
	copy(out[0], in[0])
	copy(out[1], in[1])
	if s.sink == nil {
		return
	}
	for i := range s.frames {
		s.frames[i] = [2]float32{in[0][i], in[1][i]}
	}
	s.sink(s.frames)
}
