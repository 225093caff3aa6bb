package gioui

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
)

// LabelStyle draws a single line of text with a drop shadow.
type LabelStyle struct {
	Text       string
	Color      color.NRGBA
	ShadeColor color.NRGBA
	Alignment  layout.Direction
	Font       font.Font
	FontSize   unit.Sp
	Shaper     *text.Shaper
}

func (l LabelStyle) Layout(gtx C) D {
	return l.Alignment.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Min = image.Point{}
		if l.ShadeColor.A > 0 {
			paint.ColorOp{Color: l.ShadeColor}.Add(gtx.Ops)
			offs := op.Offset(image.Pt(1, 1)).Push(gtx.Ops)
			widget.Label{Alignment: text.Start, MaxLines: 1}.Layout(gtx, l.Shaper, l.Font, l.FontSize, l.Text, op.CallOp{})
			offs.Pop()
		}
		paint.ColorOp{Color: l.Color}.Add(gtx.Ops)
		dims := widget.Label{Alignment: text.Start, MaxLines: 1}.Layout(gtx, l.Shaper, l.Font, l.FontSize, l.Text, op.CallOp{})
		return D{Size: dims.Size, Baseline: dims.Baseline}
	})
}

// Label returns a copy of style showing str, using the theme's shaper.
func Label(th *Theme, style *LabelStyle, str string) LabelStyle {
	ret := *style
	ret.Text = str
	ret.Shaper = th.Material.Shaper
	return ret
}

func TextLabel(th *Theme, str string, color color.NRGBA) LabelStyle {
	return LabelStyle{Text: str, Color: color, ShadeColor: black, Font: labelDefaultFont, FontSize: labelDefaultFontSize, Alignment: layout.W, Shaper: th.Material.Shaper}
}
