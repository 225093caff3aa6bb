package gioui

import (
	"log"

	"gioui.org/widget"
)

var iconCache = map[*byte]*widget.Icon{}

// widgetForIcon returns the icon widget for IconVG data, parsing it only once.
func widgetForIcon(icon []byte) *widget.Icon {
	if w, ok := iconCache[&icon[0]]; ok {
		return w
	}
	w, err := widget.NewIcon(icon)
	if err != nil {
		log.Fatal(err)
	}
	iconCache[&icon[0]] = w
	return w
}
