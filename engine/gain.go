package engine

import "github.com/viterin/vek/vek32"

// Gain multiplies the sum of its inputs by a constant.
type Gain struct {
	node
	gain float32
}

func (c *Context) NewGain(gain float64) *Gain {
	g := &Gain{gain: float32(gain)}
	g.init(c, KindGain, g)
	return g
}

func (g *Gain) Gain() float64 {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	return float64(g.gain)
}

func (g *Gain) SetGain(gain float64) {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	g.gain = float32(gain)
}

func (g *Gain) process(in, out Block) {
	vek32.MulNumber_Into(out[0], in[0], g.gain)
	vek32.MulNumber_Into(out[1], in[1], g.gain)
}
