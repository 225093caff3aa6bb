package session

import (
	"errors"
	"math"

	"github.com/psytec1x/looper"
)

type (
	Volume [2]float64

	// Meter measures the level of an AudioBuffer in decibels relative to full
	// scale (0 dB = signal level of +-1).
	Meter struct {
		Level      Volume  // smoothed level of left and right channels
		Peak       Volume  // peak level of left and right channels
		Attack     float64 // attack time constant in seconds
		Release    float64 // release time constant in seconds
		PeakDecay  float64 // peak release time constant in seconds
		Min        float64 // minimum level in decibels
		Max        float64 // maximum level in decibels
		SampleRate int
	}
)

var errNaN = errors.New("NaN detected in master output")

func DefaultMeter(sampleRate int) Meter {
	return Meter{
		Level:      Volume{-60, -60},
		Peak:       Volume{-60, -60},
		Attack:     0.3,
		Release:    0.3,
		PeakDecay:  1.5,
		Min:        -60,
		Max:        6,
		SampleRate: sampleRate,
	}
}

// Update smooths the decibel values of the samples with an exponentially
// decaying average, using Attack as the time constant when the level rises
// and Release when it falls. Peak follows rises immediately and decays with
// PeakDecay.
func (v *Meter) Update(buffer looper.AudioBuffer) (err error) {
	sr := float64(max(v.SampleRate, 1))
	alphaAttack := 1 - math.Exp(-1.0/(v.Attack*sr))
	alphaRelease := 1 - math.Exp(-1.0/(v.Release*sr))
	alphaPeak := 1 - math.Exp(-1.0/(v.PeakDecay*sr))
	for j := range 2 {
		for i := range buffer {
			sample2 := float64(buffer[i][j] * buffer[i][j])
			if math.IsNaN(sample2) {
				if err == nil {
					err = errNaN
				}
				continue
			}
			dB := 10 * math.Log10(sample2)
			if dB < v.Min || math.IsNaN(dB) {
				dB = v.Min
			}
			if dB > v.Max {
				dB = v.Max
			}
			a := alphaAttack
			if dB < v.Level[j] {
				a = alphaRelease
			}
			v.Level[j] += (dB - v.Level[j]) * a
			if dB > v.Peak[j] {
				v.Peak[j] = dB
			} else {
				v.Peak[j] += (dB - v.Peak[j]) * alphaPeak
			}
		}
	}
	return err
}
