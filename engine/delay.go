package engine

// MaxDelayTime is the longest delay a Delay node supports, in seconds.
const MaxDelayTime = 5.0

// Delay is a delay line with its feedback path built in. Each output sample
// is the input delayed by the delay time; the output is fed back into the
// line scaled by the feedback amount.
type Delay struct {
	node
	delayTime float64
	feedback  float32
	line      [2][]float32
	w         int
}

func (c *Context) NewDelay(delayTime, feedback float64) *Delay {
	n := int(MaxDelayTime*float64(c.sampleRate)) + 1
	d := &Delay{
		delayTime: delayTime,
		feedback:  float32(feedback),
		line:      [2][]float32{make([]float32, n), make([]float32, n)},
	}
	d.init(c, KindDelay, d)
	return d
}

func (d *Delay) SetDelayTime(seconds float64) {
	d.ctx.mu.Lock()
	defer d.ctx.mu.Unlock()
	d.delayTime = seconds
}

func (d *Delay) SetFeedback(amount float64) {
	d.ctx.mu.Lock()
	defer d.ctx.mu.Unlock()
	d.feedback = float32(amount)
}

func (d *Delay) process(in, out Block) {
	l := len(d.line[0])
	delay := min(max(int(d.delayTime*float64(d.ctx.sampleRate)+0.5), 1), l-1)
	w := d.w
	for i := 0; i < Quantum; i++ {
		r := w - delay
		if r < 0 {
			r += l
		}
		for c := range 2 {
			y := d.line[c][r]
			d.line[c][w] = in[c][i] + d.feedback*y
			out[c][i] = y
		}
		w++
		if w == l {
			w = 0
		}
	}
	d.w = w
}
