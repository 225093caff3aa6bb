package waveform

import (
	"image"
	"math"

	"github.com/psytec1x/looper"
)

type (
	// Viewport is the size of the drawing area in logical pixels, and the
	// number of device pixels per logical pixel.
	Viewport struct {
		Width, Height int
		PixelRatio    float32
	}

	// Column is the vertical span of the envelope in one device pixel
	// column; Top < Bottom, y grows downwards.
	Column struct {
		Top, Bottom int
	}

	// Frame is everything needed to paint a waveform: the envelope columns
	// and the highlighted loop region, in device pixels.
	Frame struct {
		Size      image.Point
		Columns   []Column
		Highlight [2]int // [x0, x1) of the loop region
	}

	// Renderer produces frames, recomputing only when the clip, region or
	// viewport changed since the previous call.
	Renderer struct {
		clip     *looper.Clip
		region   looper.LoopRegion
		viewport Viewport
		frame    Frame
		valid    bool
		renders  int
	}
)

// Pixels returns the size of the viewport in device pixels.
func (v Viewport) Pixels() image.Point {
	ratio := v.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	return image.Pt(int(float32(v.Width)*ratio+0.5), int(float32(v.Height)*ratio+0.5))
}

// Render returns the frame for the clip, region and viewport. The returned
// frame is owned by the renderer and valid until the next call.
func (r *Renderer) Render(clip *looper.Clip, region looper.LoopRegion, vp Viewport) *Frame {
	if r.valid && clip == r.clip && region == r.region && vp == r.viewport {
		return &r.frame
	}
	r.clip, r.region, r.viewport = clip, region, vp
	r.valid = true
	r.renders++
	size := vp.Pixels()
	r.frame = Frame{Size: size}
	if clip == nil || size.X <= 0 || size.Y <= 0 {
		return &r.frame
	}
	amp := float32(size.Y) / 2
	r.frame.Columns = make([]Column, size.X)
	for x, e := range Envelope(clip, size.X) {
		top := int((1 - min(e.Max, 1)) * amp)
		bottom := int((1 - max(e.Min, -1)) * amp)
		r.frame.Columns[x] = Column{Top: top, Bottom: max(bottom, top+1)}
	}
	m := Mapping{Width: float32(size.X), Duration: clip.Duration()}
	r.frame.Highlight = [2]int{
		int(math.Round(float64(m.X(region.Start)))),
		int(math.Round(float64(m.X(region.End)))),
	}
	return &r.frame
}

// Renders returns how many times the frame was recomputed.
func (r *Renderer) Renders() int { return r.renders }
