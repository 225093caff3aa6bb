package gioui

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/psytec1x/looper/session"
)

type (
	// ActionButton is an icon button performing a session.Action.
	ActionButton struct {
		Clickable widget.Clickable
	}

	// ToggleButton is an icon button flipping a session.Bool. The icon and
	// the hint follow the value.
	ToggleButton struct {
		Clickable widget.Clickable
		OffIcon   []byte
		OnIcon    []byte
		OffHint   string
		OnHint    string
		OnColor   color.NRGBA
	}
)

func IconButton(th *Theme, w *widget.Clickable, icon []byte, enabled bool, hint string) material.IconButtonStyle {
	ret := material.IconButton(&th.Material, w, widgetForIcon(icon), hint)
	ret.Background = transparent
	ret.Inset = layout.UniformInset(unit.Dp(6))
	ret.Size = unit.Dp(24)
	if enabled {
		ret.Color = primaryColor
	} else {
		ret.Color = disabledTextColor
	}
	return ret
}

func (b *ActionButton) Layout(gtx C, th *Theme, a session.Action, icon []byte, hint string) D {
	for b.Clickable.Clicked(gtx) {
		a.Do()
	}
	enabled := a.Enabled()
	if !enabled {
		gtx = gtx.Disabled()
	}
	return IconButton(th, &b.Clickable, icon, enabled, hint).Layout(gtx)
}

func (b *ToggleButton) Layout(gtx C, th *Theme, v session.Bool) D {
	for b.Clickable.Clicked(gtx) {
		v.Toggle()
	}
	enabled := v.Enabled()
	if !enabled {
		gtx = gtx.Disabled()
	}
	icon, hint := b.OffIcon, b.OffHint
	if v.Value() {
		icon, hint = b.OnIcon, b.OnHint
	}
	btn := IconButton(th, &b.Clickable, icon, enabled, hint)
	if enabled && v.Value() && b.OnColor.A > 0 {
		btn.Color = b.OnColor
	}
	return btn.Layout(gtx)
}
