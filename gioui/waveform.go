package gioui

import (
	"image"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/waveform"
)

// WaveformState keeps the cached rendering and the region drag of one
// track's waveform.
type WaveformState struct {
	renderer  waveform.Renderer
	selection waveform.Selection
	mapping   waveform.Mapping
}

type WaveformWidget struct {
	Theme  *Theme
	State  *WaveformState
	Clip   *looper.Clip
	Region looper.LoopRegion
	// Commit is called with the region chosen by a drag long enough to
	// count.
	Commit func(looper.LoopRegion)
}

func Waveform(th *Theme, state *WaveformState, clip *looper.Clip, region looper.LoopRegion, threshold float64, commit func(looper.LoopRegion)) WaveformWidget {
	state.selection.Threshold = threshold
	return WaveformWidget{Theme: th, State: state, Clip: clip, Region: region, Commit: commit}
}

func (s *WaveformState) update(gtx C, clip *looper.Clip, commit func(looper.LoopRegion)) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: s,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		if clip == nil {
			s.selection.Cancel()
			continue
		}
		id := waveform.PointerID(e.PointerID)
		t := s.mapping.Time(e.Position.X)
		switch e.Kind {
		case pointer.Press:
			if e.Source == pointer.Mouse && e.Buttons != pointer.ButtonPrimary {
				continue
			}
			s.selection.Begin(id, t)
		case pointer.Drag:
			s.selection.Update(id, t)
		case pointer.Release:
			if r, ok := s.selection.End(id, t); ok && commit != nil {
				commit(r)
			}
		case pointer.Cancel:
			s.selection.Cancel()
		}
	}
}

func (w WaveformWidget) Layout(gtx C) D {
	size := image.Pt(gtx.Constraints.Max.X, gtx.Dp(w.Theme.Waveform.Height))
	gtx.Constraints = layout.Exact(size)
	w.State.mapping = waveform.Mapping{Width: float32(size.X)}
	if w.Clip != nil {
		w.State.mapping.Duration = w.Clip.Duration()
	}
	w.State.update(gtx, w.Clip, w.Commit)

	defer clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops).Pop()
	paint.FillShape(gtx.Ops, w.Theme.Waveform.Bg, clip.Rect{Max: size}.Op())
	event.Op(gtx.Ops, w.State)
	pointer.CursorText.Add(gtx.Ops)
	if w.Clip == nil {
		return D{Size: size}
	}

	ratio := gtx.Metric.PxPerDp
	vp := waveform.Viewport{
		Width:      int(float32(size.X)/ratio + 0.5),
		Height:     int(float32(size.Y)/ratio + 0.5),
		PixelRatio: ratio,
	}
	frame := w.State.renderer.Render(w.Clip, w.Region, vp)

	hl := image.Rect(frame.Highlight[0], 0, frame.Highlight[1], size.Y)
	paint.FillShape(gtx.Ops, w.Theme.Waveform.Region, clip.Rect(hl).Op())

	var p clip.Path
	p.Begin(gtx.Ops)
	for x, c := range frame.Columns {
		if x >= size.X {
			break
		}
		top, bottom := float32(min(c.Top, size.Y)), float32(min(c.Bottom, size.Y))
		if bottom <= top {
			bottom = top + 1
		}
		p.MoveTo(f32.Pt(float32(x), top))
		p.LineTo(f32.Pt(float32(x+1), top))
		p.LineTo(f32.Pt(float32(x+1), bottom))
		p.LineTo(f32.Pt(float32(x), bottom))
		p.Close()
	}
	paint.FillShape(gtx.Ops, w.Theme.Waveform.Envelope, clip.Outline{Path: p.End()}.Op())

	if r, ok := w.State.selection.Candidate(); ok {
		x0, x1 := w.State.mapping.X(r.Start), w.State.mapping.X(r.End)
		rect := image.Rect(int(x0), 0, int(x1+0.5), size.Y)
		paint.FillShape(gtx.Ops, w.Theme.Waveform.Candidate, clip.Rect(rect).Op())
	}
	return D{Size: size}
}
