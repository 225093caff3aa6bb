package gioui

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/x/stroke"
	"github.com/psytec1x/looper/knob"
)

type (
	KnobState struct {
		drag knob.Drag
		ges  gesture.Drag
	}

	KnobStyle struct {
		Diameter    unit.Dp
		StrokeWidth unit.Dp
		Bg          color.NRGBA
		Color       color.NRGBA
		Disabled    color.NRGBA
		Indicator   IndicatorStyle
		Value       LabelStyle
		Title       LabelStyle
	}

	IndicatorStyle struct {
		InnerDiam unit.Dp
		OuterDiam unit.Dp
		Width     unit.Dp
		Color     color.NRGBA
	}

	// KnobWidget draws a rotary control. Dragging calls OnChange with each
	// new value; the widget itself never stores the value.
	KnobWidget struct {
		Theme    *Theme
		State    *KnobState
		Style    *KnobStyle
		Knob     knob.Knob
		Value    float64
		Title    string
		Disabled bool
		OnChange func(float64)
	}
)

func Knob(th *Theme, state *KnobState, k knob.Knob, value float64, title string, onChange func(float64)) KnobWidget {
	return KnobWidget{
		Theme:    th,
		State:    state,
		Style:    &th.Knob,
		Knob:     k,
		Value:    value,
		Title:    title,
		OnChange: onChange,
	}
}

// Dragging reports whether the knob is being dragged.
func (s *KnobState) Dragging() bool { return s.drag.Active() }

func (s *KnobState) update(gtx C, k knob.Knob, value float64, onChange func(float64)) {
	for {
		e, ok := s.ges.Update(gtx.Metric, gtx.Source, gesture.Both)
		if !ok {
			break
		}
		pos := knob.Point{X: e.Position.X, Y: e.Position.Y}
		switch e.Kind {
		case pointer.Press:
			input := knob.Pointer
			if e.Source == pointer.Touch {
				input = knob.Touch
			}
			s.drag.Begin(k, pos, input, value)
		case pointer.Drag:
			if v, ok := s.drag.Update(pos); ok && onChange != nil {
				onChange(v)
			}
		case pointer.Release, pointer.Cancel:
			s.drag.End()
		}
	}
}

func (k *KnobWidget) Layout(gtx C) D {
	kn := k.Knob
	if kn.Sensitivity == 0 {
		kn.Sensitivity = knob.DefaultSensitivity
	}
	// sensitivity is given in dp, drags arrive in device pixels
	kn.Sensitivity *= float64(gtx.Metric.PxPerDp)
	if !k.Disabled {
		k.State.update(gtx, kn, k.Value, k.OnChange)
	} else {
		k.State.drag.End()
	}
	dial := func(gtx C) D {
		sw := gtx.Dp(k.Style.StrokeWidth)
		d := gtx.Dp(k.Style.Diameter)
		defer clip.Rect(image.Rectangle{Max: image.Pt(d, d)}).Push(gtx.Ops).Pop()
		if !k.Disabled {
			event.Op(gtx.Ops, k.State)
			k.State.ges.Add(gtx.Ops)
		}
		amount := float32(k.Knob.Fraction(k.Value))
		fg := k.Style.Color
		if k.Disabled {
			fg = k.Style.Disabled
		}
		k.strokeKnobArc(gtx, k.Style.Bg, sw, d, amount, 1)
		k.strokeKnobArc(gtx, fg, sw, d, 0, amount)
		k.strokeIndicator(gtx, amount)
		return D{Size: image.Pt(d, d)}
	}
	value := Label(k.Theme, &k.Style.Value, k.Knob.Format(k.Value))
	value.Alignment = layout.Center
	title := Label(k.Theme, &k.Style.Title, k.Title)
	title.Alignment = layout.Center
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Stack{Alignment: layout.Center}.Layout(gtx,
				layout.Stacked(dial),
				layout.Stacked(value.Layout))
		}),
		layout.Rigid(title.Layout),
	)
}

func (k *KnobWidget) strokeKnobArc(gtx C, color color.NRGBA, strokeWidth, diameter int, start, end float32) {
	rad := float32(diameter) / 2
	end = min(max(end, 0), 1)
	if end <= start {
		return
	}
	startAngle := float64((start*8 + 1) / 10 * 2 * math.Pi)
	deltaAngle := (end - start) * 8 * math.Pi / 5
	center := f32.Point{X: rad, Y: rad}
	r2 := rad - float32(strokeWidth)/2
	startPt := f32.Point{X: rad - r2*float32(math.Sin(startAngle)), Y: rad + r2*float32(math.Cos(startAngle))}
	segments := [...]stroke.Segment{
		stroke.MoveTo(startPt),
		stroke.ArcTo(center, deltaAngle),
	}
	s := stroke.Stroke{
		Path:  stroke.Path{Segments: segments[:]},
		Width: float32(strokeWidth),
		Cap:   stroke.FlatCap,
	}
	paint.FillShape(gtx.Ops, color, s.Op(gtx.Ops))
}

func (k *KnobWidget) strokeIndicator(gtx C, amount float32) {
	innerRad := float32(gtx.Dp(k.Style.Indicator.InnerDiam)) / 2
	outerRad := float32(gtx.Dp(k.Style.Indicator.OuterDiam)) / 2
	center := float32(gtx.Dp(k.Style.Diameter)) / 2
	angle := (float64(amount)*8 + 1) / 10 * 2 * math.Pi
	start := f32.Point{
		X: center - innerRad*float32(math.Sin(angle)),
		Y: center + innerRad*float32(math.Cos(angle)),
	}
	end := f32.Point{
		X: center - outerRad*float32(math.Sin(angle)),
		Y: center + outerRad*float32(math.Cos(angle)),
	}
	segments := [...]stroke.Segment{
		stroke.MoveTo(start),
		stroke.LineTo(end),
	}
	s := stroke.Stroke{
		Path:  stroke.Path{Segments: segments[:]},
		Width: float32(gtx.Dp(k.Style.Indicator.Width)),
		Cap:   stroke.FlatCap,
	}
	paint.FillShape(gtx.Ops, k.Style.Indicator.Color, s.Op(gtx.Ops))
}
