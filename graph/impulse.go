package graph

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/psytec1x/looper"
)

// ImpulseResponse creates a synthetic stereo reverb impulse response: white
// noise with an exponentially decaying envelope exp(-t/decay), lasting
// duration seconds.
func ImpulseResponse(sampleRate int, duration, decay float64, rng *rand.Rand) (*looper.Clip, error) {
	length := int(float64(sampleRate) * duration)
	if length <= 0 || decay <= 0 {
		return nil, fmt.Errorf("invalid impulse response: duration %v s, decay %v s", duration, decay)
	}
	channels := [][]float32{make([]float32, length), make([]float32, length)}
	for _, data := range channels {
		for i := range data {
			noise := rng.Float64()*2 - 1
			t := float64(i) / float64(sampleRate)
			data[i] = float32(noise * math.Exp(-t/decay))
		}
	}
	return looper.NewClip(channels, sampleRate)
}
