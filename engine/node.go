package engine

import (
	"fmt"

	"github.com/viterin/vek/vek32"
)

// Quantum is the number of frames rendered at once.
const Quantum = 128

type (
	// Block is one quantum of planar stereo audio.
	Block [2][]float32

	// Kind identifies the type of a node.
	Kind int

	// Node is a vertex of the audio graph. All nodes are created by a
	// Context and may only be connected to nodes of the same context.
	Node interface {
		Kind() Kind
		base() *node
	}

	processor interface {
		process(in, out Block)
	}

	node struct {
		ctx     *Context
		kind    Kind
		proc    processor
		inputs  []Node
		outputs []Node
		last    int64
		in, out Block
	}
)

const (
	KindBufferSource Kind = iota
	KindBiquadFilter
	KindDelay
	KindGain
	KindConvolver
	KindDestination
	KindStreamDestination
)

var kindNames = [...]string{"BufferSource", "BiquadFilter", "Delay", "Gain", "Convolver", "Destination", "StreamDestination"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func newBlock() Block {
	return Block{make([]float32, Quantum), make([]float32, Quantum)}
}

func (n *node) init(ctx *Context, kind Kind, proc processor) {
	n.ctx = ctx
	n.kind = kind
	n.proc = proc
	n.in = newBlock()
	n.out = newBlock()
}

func (n *node) Kind() Kind        { return n.kind }
func (n *node) base() *node       { return n }
func (n *node) Context() *Context { return n.ctx }

// pull renders the node for quantum q, unless already rendered. The quantum
// is marked before the inputs are pulled, so a cycle in the graph reads the
// previous output instead of recursing forever.
func (n *node) pull(q int64) Block {
	if n.last == q {
		return n.out
	}
	n.last = q
	vek32.Zeros_Into(n.in[0], Quantum)
	vek32.Zeros_Into(n.in[1], Quantum)
	for _, src := range n.inputs {
		b := src.base().pull(q)
		vek32.Add_Inplace(n.in[0], b[0])
		vek32.Add_Inplace(n.in[1], b[1])
	}
	n.proc.process(n.in, n.out)
	return n.out
}
