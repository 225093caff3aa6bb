package engine

import "math"

// BiquadFilter is a second order lowpass filter using the coefficients from
// the Audio EQ Cookbook by Robert Bristow-Johnson.
type BiquadFilter struct {
	node
	frequency float64
	q         float64
	b0, b1    float64
	b2        float64
	a1, a2    float64
	x1, x2    [2]float64
	y1, y2    [2]float64
}

// DefaultQ gives a Butterworth response, i.e. no resonance peak.
const DefaultQ = math.Sqrt2 / 2

func (c *Context) NewLowpass(frequency float64) *BiquadFilter {
	f := &BiquadFilter{frequency: frequency, q: DefaultQ}
	f.init(c, KindBiquadFilter, f)
	f.computeCoeffs()
	return f
}

func (f *BiquadFilter) Frequency() float64 {
	f.ctx.mu.Lock()
	defer f.ctx.mu.Unlock()
	return f.frequency
}

func (f *BiquadFilter) SetFrequency(hz float64) {
	f.ctx.mu.Lock()
	defer f.ctx.mu.Unlock()
	f.frequency = hz
	f.computeCoeffs()
}

func (f *BiquadFilter) computeCoeffs() {
	nyquist := float64(f.ctx.sampleRate) / 2
	if f.frequency >= nyquist {
		f.b0, f.b1, f.b2, f.a1, f.a2 = 1, 0, 0, 0, 0
		return
	}
	w0 := 2 * math.Pi * max(f.frequency, 1) / float64(f.ctx.sampleRate)
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * f.q)
	a0 := 1 + alpha
	f.b0 = (1 - cosw) / 2 / a0
	f.b1 = (1 - cosw) / a0
	f.b2 = f.b0
	f.a1 = -2 * cosw / a0
	f.a2 = (1 - alpha) / a0
}

func (f *BiquadFilter) process(in, out Block) {
	for c := range 2 {
		x1, x2, y1, y2 := f.x1[c], f.x2[c], f.y1[c], f.y2[c]
		for i, v := range in[c] {
			x := float64(v)
			y := f.b0*x + f.b1*x1 + f.b2*x2 - f.a1*y1 - f.a2*y2
			x2, x1 = x1, x
			y2, y1 = y1, y
			out[c][i] = float32(y)
		}
		f.x1[c], f.x2[c], f.y1[c], f.y2[c] = x1, x2, y1, y2
	}
}
