package gioui

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

type (
	Theme struct {
		Material material.Theme
		Knob     KnobStyle
		Waveform WaveformStyle
		Alert    struct {
			Info    PopupAlertStyle
			Warning PopupAlertStyle
			Error   PopupAlertStyle
		}
	}

	WaveformStyle struct {
		Height    unit.Dp
		Bg        color.NRGBA
		Envelope  color.NRGBA
		Region    color.NRGBA
		Candidate color.NRGBA
	}
)

var fontCollection []font.FontFace = gofont.Collection()

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
var black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
var transparent = color.NRGBA{A: 0}

var primaryColor = color.NRGBA{R: 206, G: 147, B: 216, A: 255}
var secondaryColor = color.NRGBA{R: 128, G: 222, B: 234, A: 255}

var highEmphasisTextColor = color.NRGBA{R: 222, G: 222, B: 222, A: 222}
var mediumEmphasisTextColor = color.NRGBA{R: 153, G: 153, B: 153, A: 153}
var disabledTextColor = color.NRGBA{R: 255, G: 255, B: 255, A: 97}

var backgroundColor = color.NRGBA{R: 18, G: 18, B: 18, A: 255}
var trackSurfaceColor = color.NRGBA{R: 37, G: 37, B: 38, A: 255}
var popupSurfaceColor = color.NRGBA{R: 50, G: 50, B: 51, A: 255}

var recordColor = color.NRGBA{R: 207, G: 102, B: 121, A: 255}
var errorColor = color.NRGBA{R: 207, G: 102, B: 121, A: 255}
var warningColor = color.NRGBA{R: 251, G: 192, B: 45, A: 255}

var labelDefaultFont = fontCollection[6].Font
var labelDefaultFontSize = unit.Sp(16)

func NewTheme() *Theme {
	t := &Theme{}
	t.Material = *material.NewTheme()
	t.Material.Shaper = text.NewShaper(text.WithCollection(fontCollection))
	t.Material.Palette.Bg = backgroundColor
	t.Material.Palette.Fg = highEmphasisTextColor
	t.Material.Palette.ContrastBg = primaryColor
	t.Material.Palette.ContrastFg = black
	t.Material.TextSize = labelDefaultFontSize

	t.Knob = KnobStyle{
		Diameter:    unit.Dp(44),
		StrokeWidth: unit.Dp(5),
		Bg:          color.NRGBA{R: 64, G: 64, B: 64, A: 255},
		Color:       primaryColor,
		Disabled:    disabledTextColor,
		Indicator: IndicatorStyle{
			InnerDiam: unit.Dp(18),
			OuterDiam: unit.Dp(34),
			Width:     unit.Dp(2),
			Color:     white,
		},
		Value: LabelStyle{Color: highEmphasisTextColor, ShadeColor: black, Font: labelDefaultFont, FontSize: unit.Sp(11)},
		Title: LabelStyle{Color: mediumEmphasisTextColor, ShadeColor: black, Font: labelDefaultFont, FontSize: unit.Sp(11)},
	}
	t.Waveform = WaveformStyle{
		Height:    unit.Dp(88),
		Bg:        color.NRGBA{R: 24, G: 24, B: 26, A: 255},
		Envelope:  secondaryColor,
		Region:    color.NRGBA{R: 206, G: 147, B: 216, A: 48},
		Candidate: color.NRGBA{R: 100, G: 140, B: 255, A: 64},
	}
	alertText := LabelStyle{Color: highEmphasisTextColor, ShadeColor: black, Font: labelDefaultFont, FontSize: labelDefaultFontSize}
	t.Alert.Info = PopupAlertStyle{Bg: popupSurfaceColor, Text: alertText}
	t.Alert.Warning = PopupAlertStyle{Bg: warningColor, Text: alertText}
	t.Alert.Warning.Text.Color = black
	t.Alert.Warning.Text.ShadeColor = transparent
	t.Alert.Error = PopupAlertStyle{Bg: errorColor, Text: alertText}
	return t
}
