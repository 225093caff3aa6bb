// Package waveform draws clips as min/max envelopes and turns horizontal
// drags over the drawing into loop region selections.
package waveform

import (
	"github.com/psytec1x/looper"
	"github.com/viterin/vek/vek32"
)

// Extent is the smallest and largest sample within one pixel column.
type Extent struct {
	Min, Max float32
}

// Envelope splits the first channel of the clip into width columns and
// returns the extremes of each column. When there are more columns than
// samples, neighbouring columns share a sample.
func Envelope(clip *looper.Clip, width int) []Extent {
	if clip == nil || width <= 0 {
		return nil
	}
	data := clip.Channel(0)
	n := len(data)
	ret := make([]Extent, width)
	for x := range ret {
		a := x * n / width
		b := max((x+1)*n/width, a+1)
		seg := data[a:min(b, n)]
		ret[x] = Extent{Min: vek32.Min(seg), Max: vek32.Max(seg)}
	}
	return ret
}
