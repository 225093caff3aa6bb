// Package graph builds the per-track signal chain: a looping source through
// a lowpass filter into a track gain, with optional delay and reverb
// branches, feeding the speakers and the recording bus.
package graph

import (
	"errors"
	"fmt"
	"log"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/engine"
)

type (
	// Outputs are the shared destinations every track feeds. Bus may be nil.
	Outputs struct {
		Speakers engine.Node
		Bus      engine.Node
	}

	// Settings are the fixed parameters of the delay branch.
	Settings struct {
		DelayTime     float64 `yaml:"delaytime"`
		DelayFeedback float64 `yaml:"delayfeedback"`
	}

	// Builder creates fresh track graphs in a shared context.
	Builder struct {
		Context  *engine.Context
		Outputs  Outputs
		Settings Settings
	}

	// ImpulseFunc returns the impulse response for the reverb branch. It is
	// only called when the branch is needed.
	ImpulseFunc func() (*looper.Clip, error)

	// Graph is one connected track chain. Its nodes are single-use: once torn
	// down, a new Graph must be built.
	Graph struct {
		ctx       *engine.Context
		region    looper.LoopRegion
		nodes     []engine.Node
		Source    *engine.BufferSource
		Filter    *engine.BiquadFilter
		Delay     *engine.Delay     // nil without the delay branch
		DelayMix  *engine.Gain      // nil without the delay branch
		Reverb    *engine.Convolver // nil without the reverb branch
		ReverbMix *engine.Gain      // nil without the reverb branch
		Output    *engine.Gain
	}
)

func DefaultSettings() Settings {
	return Settings{DelayTime: 0.3, DelayFeedback: 0.4}
}

// Build creates and connects a new chain for the clip. The returned graph is
// not started. If building fails, everything connected so far is
// disconnected again before returning the error.
func (b *Builder) Build(clip *looper.Clip, region looper.LoopRegion, params looper.EffectParams, impulse ImpulseFunc) (*Graph, error) {
	ctx := b.Context
	g := &Graph{ctx: ctx, region: region}
	var err error
	link := func(from, to engine.Node) {
		if err == nil {
			err = ctx.Connect(from, to)
		}
	}
	g.Source = ctx.NewBufferSource(clip)
	g.Source.SetLoop(true, region.Start, region.End)
	g.Filter = ctx.NewLowpass(params.FilterCutoffHz)
	g.Output = ctx.NewGain(1)
	g.nodes = append(g.nodes, g.Source, g.Filter, g.Output)
	link(g.Source, g.Filter)
	link(g.Filter, g.Output)
	if params.DelayMix > 0 {
		g.Delay = ctx.NewDelay(b.Settings.DelayTime, b.Settings.DelayFeedback)
		g.DelayMix = ctx.NewGain(params.DelayMix)
		g.nodes = append(g.nodes, g.Delay, g.DelayMix)
		link(g.Filter, g.Delay)
		link(g.Delay, g.DelayMix)
		link(g.DelayMix, g.Output)
	}
	if params.ReverbMix > 0 && err == nil {
		var ir *looper.Clip
		if ir, err = impulse(); err == nil {
			g.Reverb, err = ctx.NewConvolver(ir, true)
		}
		if err == nil {
			g.ReverbMix = ctx.NewGain(params.ReverbMix)
			g.nodes = append(g.nodes, g.Reverb, g.ReverbMix)
			link(g.Filter, g.Reverb)
			link(g.Reverb, g.ReverbMix)
			link(g.ReverbMix, g.Output)
		}
	}
	link(g.Output, b.Outputs.Speakers)
	if b.Outputs.Bus != nil {
		link(g.Output, b.Outputs.Bus)
	}
	if err != nil {
		g.Teardown()
		return nil, fmt.Errorf("building track graph: %w", err)
	}
	return g, nil
}

// Start starts the source at the beginning of the loop region.
func (g *Graph) Start() error {
	return g.Source.Start(g.region.Start)
}

// Teardown stops the source and disconnects every node. It is safe to call
// more than once.
func (g *Graph) Teardown() {
	if err := g.Source.Stop(); err != nil && !errors.Is(err, engine.ErrSourceNotStarted) {
		log.Printf("graph: stopping source: %v", err)
	}
	for i := len(g.nodes) - 1; i >= 0; i-- {
		g.ctx.Disconnect(g.nodes[i])
	}
}

// Region returns the loop region the graph was built for.
func (g *Graph) Region() looper.LoopRegion { return g.region }

// Nodes returns the kinds of all nodes in the graph, in creation order.
func (g *Graph) Nodes() []engine.Kind {
	ret := make([]engine.Kind, len(g.nodes))
	for i, n := range g.nodes {
		ret[i] = n.Kind()
	}
	return ret
}
