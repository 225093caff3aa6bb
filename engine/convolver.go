package engine

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/psytec1x/looper"
)

// Convolver convolves its input with an impulse response, using uniformly
// partitioned overlap-save convolution in the frequency domain. Partitions
// are one quantum long, so the convolver adds no latency.
type Convolver struct {
	node
	fft   *fft
	parts [2][][]complex128 // spectra of the impulse response partitions, bins 0..Quantum
	fdl   [2][][]complex128 // spectra of past input frames, a ring buffer
	head  int
	prev  [2][]float32
	frame []complex128
	acc   []complex128
}

var ErrImpulseRate = errors.New("impulse response sample rate differs from the context")

// NewConvolver creates a convolver for the impulse response. A mono impulse
// response is used for both channels. If normalize is true, the response is
// scaled to a roughly constant loudness the same way browsers do it.
func (c *Context) NewConvolver(impulse *looper.Clip, normalize bool) (*Convolver, error) {
	if impulse.SampleRate() != c.sampleRate {
		return nil, fmt.Errorf("%w: %d != %d", ErrImpulseRate, impulse.SampleRate(), c.sampleRate)
	}
	const n = 2 * Quantum
	v := &Convolver{
		fft:   newFFT(n),
		prev:  [2][]float32{make([]float32, Quantum), make([]float32, Quantum)},
		frame: make([]complex128, n),
		acc:   make([]complex128, Quantum+1),
	}
	scale := 1.0
	if normalize {
		scale = normalizationScale(impulse)
	}
	numParts := (impulse.NumFrames() + Quantum - 1) / Quantum
	for ch := range 2 {
		src := impulse.Channel(min(ch, impulse.NumChannels()-1))
		v.parts[ch] = make([][]complex128, numParts)
		v.fdl[ch] = make([][]complex128, numParts)
		for p := range numParts {
			clear(v.frame)
			seg := src[p*Quantum : min((p+1)*Quantum, len(src))]
			for i, s := range seg {
				v.frame[i] = complex(float64(s)*scale, 0)
			}
			v.fft.transform(v.frame, false)
			v.parts[ch][p] = append([]complex128(nil), v.frame[:Quantum+1]...)
			v.fdl[ch][p] = make([]complex128, Quantum+1)
		}
	}
	v.init(c, KindConvolver, v)
	return v, nil
}

// normalizationScale follows the normalization of the Web Audio
// ConvolverNode: the response is scaled by the inverse of its RMS power,
// calibrated to 44.1 kHz.
func normalizationScale(impulse *looper.Clip) float64 {
	const (
		gainCalibration           = 0.00125
		gainCalibrationSampleRate = 44100
		minPower                  = 0.000125
	)
	var power float64
	for ch := range impulse.NumChannels() {
		for _, s := range impulse.Channel(ch) {
			power += float64(s) * float64(s)
		}
	}
	power = math.Sqrt(power / float64(impulse.NumChannels()*impulse.NumFrames()))
	if math.IsNaN(power) || math.IsInf(power, 0) || power < minPower {
		power = minPower
	}
	scale := 1 / power * gainCalibration
	scale *= gainCalibrationSampleRate / float64(impulse.SampleRate())
	return scale
}

func (v *Convolver) process(in, out Block) {
	numParts := len(v.parts[0])
	for ch := range 2 {
		for i := range Quantum {
			v.frame[i] = complex(float64(v.prev[ch][i]), 0)
			v.frame[Quantum+i] = complex(float64(in[ch][i]), 0)
		}
		copy(v.prev[ch], in[ch])
		v.fft.transform(v.frame, false)
		copy(v.fdl[ch][v.head], v.frame[:Quantum+1])
		clear(v.acc)
		for p := range numParts {
			idx := v.head - p
			if idx < 0 {
				idx += numParts
			}
			x := v.fdl[ch][idx]
			h := v.parts[ch][p]
			for k := range v.acc {
				v.acc[k] += x[k] * h[k]
			}
		}
		// the input is real, so the upper half of the spectrum mirrors the lower half
		copy(v.frame, v.acc)
		for k := 1; k < Quantum; k++ {
			v.frame[2*Quantum-k] = cmplx.Conj(v.acc[k])
		}
		v.fft.transform(v.frame, true)
		for i := range Quantum {
			out[ch][i] = float32(real(v.frame[Quantum+i]))
		}
	}
	v.head++
	if v.head == numParts {
		v.head = 0
	}
}
