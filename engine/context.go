package engine

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/psytec1x/looper"
)

type (
	// Context owns the node graph and renders it. The zero value is not
	// usable; create contexts with NewContext.
	Context struct {
		mu         sync.Mutex
		sampleRate int
		state      State
		quantum    int64
		frames     int64
		dest       *Destination
		streams    []*StreamDestination
		out        Block
		outPos     int
	}

	// State is the lifecycle state of a Context.
	State int
)

const (
	Suspended State = iota
	Running
	Closed
)

var (
	ErrClosed      = errors.New("audio context is closed")
	ErrForeignNode = errors.New("node belongs to another audio context")
	ErrNoInput     = errors.New("node does not accept inputs")
	ErrNoOutput    = errors.New("node has no outputs")
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// NewContext creates a suspended context rendering at the given sample rate.
func NewContext(sampleRate int) *Context {
	c := &Context{sampleRate: sampleRate, out: newBlock(), outPos: Quantum}
	c.dest = &Destination{}
	c.dest.init(c, KindDestination, c.dest)
	return c
}

func (c *Context) SampleRate() int { return c.sampleRate }

// Destination returns the node representing the speakers.
func (c *Context) Destination() *Destination { return c.dest }

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Resume starts rendering. Resuming a running context is a no-op.
func (c *Context) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return ErrClosed
	}
	c.state = Running
	return nil
}

// Suspend pauses rendering; Render outputs silence and time stands still.
func (c *Context) Suspend() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return ErrClosed
	}
	c.state = Suspended
	return nil
}

// Close releases the graph. A closed context cannot be resumed.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Closed
	c.dest.inputs = nil
	for _, s := range c.streams {
		s.inputs = nil
		s.sink = nil
	}
	c.streams = nil
	return nil
}

// CurrentTime returns the number of seconds rendered while running.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.frames) / float64(c.sampleRate)
}

// Render fills buf with the output of the speaker destination. It is meant
// to be called from the audio output goroutine.
func (c *Context) Render(buf looper.AudioBuffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Running {
		clear(buf)
		return nil
	}
	for i := range buf {
		if c.outPos >= Quantum {
			c.renderQuantum()
			c.outPos = 0
		}
		buf[i] = [2]float32{c.out[0][c.outPos], c.out[1][c.outPos]}
		c.outPos++
	}
	c.frames += int64(len(buf))
	return nil
}

func (c *Context) renderQuantum() {
	c.quantum++
	b := c.dest.pull(c.quantum)
	copy(c.out[0], b[0])
	copy(c.out[1], b[1])
	for _, s := range c.streams {
		s.pull(c.quantum)
	}
}

// Connect routes the output of from into an input of to. Connecting the same
// pair twice has no effect.
func (c *Context) Connect(from, to Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return ErrClosed
	}
	f, t := from.base(), to.base()
	if f.ctx != c || t.ctx != c {
		return ErrForeignNode
	}
	if t.kind == KindBufferSource {
		return fmt.Errorf("connect %v to %v: %w", f.kind, t.kind, ErrNoInput)
	}
	if f.kind == KindDestination || f.kind == KindStreamDestination {
		return fmt.Errorf("connect %v to %v: %w", f.kind, t.kind, ErrNoOutput)
	}
	if slices.Contains(t.inputs, from) {
		return nil
	}
	t.inputs = append(t.inputs, from)
	f.outputs = append(f.outputs, to)
	return nil
}

// Disconnect removes all outgoing connections of n. Disconnecting a node
// without connections is a no-op.
func (c *Context) Disconnect(n Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := n.base()
	for _, o := range b.outputs {
		ob := o.base()
		ob.inputs = slices.DeleteFunc(ob.inputs, func(i Node) bool { return i == n })
	}
	b.outputs = nil
}

// Inputs returns the nodes currently connected to the inputs of n.
func (c *Context) Inputs(n Node) []Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(n.base().inputs)
}
