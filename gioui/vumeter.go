package gioui

import (
	"image"

	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/psytec1x/looper/session"
)

// VuMeter draws the left and right level as horizontal bars between Min and
// Max decibels, with a tick at the peak.
type VuMeter struct {
	Level    session.Volume
	Peak     session.Volume
	Min, Max float64
}

func (v VuMeter) Layout(gtx C) D {
	defer op.Offset(image.Point{}).Push(gtx.Ops).Pop()
	width := gtx.Constraints.Max.X
	height := gtx.Dp(unit.Dp(6))
	span := v.Max - v.Min
	if span <= 0 {
		return D{}
	}
	toX := func(db float64) int {
		return min(max(int((db-v.Min)/span*float64(width)+0.5), 0), width)
	}
	zero := toX(0)
	for j := range 2 {
		if x := toX(v.Level[j]); x > 0 {
			paint.FillShape(gtx.Ops, mediumEmphasisTextColor, clip.Rect(image.Rect(0, 0, min(x, zero), height)).Op())
			if x > zero {
				paint.FillShape(gtx.Ops, warningColor, clip.Rect(image.Rect(zero, 0, x, height)).Op())
			}
		}
		if x := toX(v.Peak[j]); x > 0 {
			color := white
			if v.Peak[j] >= 0 {
				color = errorColor
			}
			paint.FillShape(gtx.Ops, color, clip.Rect(image.Rect(x-1, 0, x, height)).Op())
		}
		op.Offset(image.Point{0, height}).Add(gtx.Ops)
	}
	return D{Size: image.Pt(width, 2*height)}
}
