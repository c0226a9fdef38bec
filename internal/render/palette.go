// Package render composes calendar views and a weather badge onto a
// fixed-size six-color raster for a Waveshare 7.3" (E) panel.
//
// Rendering is a pure function of (events, weather, config, now): no
// network or disk access happens here apart from the one-time font load
// owned by FontCache. The output is an *image.Paletted over Palette,
// ready for PNG preview encoding or panel framebuffer packing.
package render

import (
	"image/color"

	appLog "inkcal/internal/log"
)

// ColorIndex identifies one of the six panel colors. The values are the
// palette indices of the output image; PanelCode maps them to the data
// codes the 7.3" (E) controller expects.
type ColorIndex int

const (
	Black ColorIndex = iota
	White
	Yellow
	Red
	Blue
	Green
)

// panelCodes are the per-pixel data codes of the 7.3" (E) controller.
// 0x4 is unused by this panel generation.
var panelCodes = [...]byte{0x0, 0x1, 0x2, 0x3, 0x5, 0x6}

// PanelCode returns the controller data code for this color.
func (c ColorIndex) PanelCode() byte {
	return panelCodes[c]
}

// NRGBA returns the saturated RGB value used when drawing this color.
// Drawing in exact palette values keeps quantization lossless for
// everything except anti-aliased edges.
func (c ColorIndex) NRGBA() color.NRGBA {
	switch c {
	case White:
		return color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	case Yellow:
		return color.NRGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}
	case Red:
		return color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
	case Blue:
		return color.NRGBA{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF}
	case Green:
		return color.NRGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}
	default:
		return color.NRGBA{A: 0xFF}
	}
}

func (c ColorIndex) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Green:
		return "green"
	}
	return "invalid"
}

// Palette is the output palette, ordered by ColorIndex.
var Palette = color.Palette{
	Black.NRGBA(),
	White.NRGBA(),
	Yellow.NRGBA(),
	Red.NRGBA(),
	Blue.NRGBA(),
	Green.NRGBA(),
}

// gold is a drawing-only tone for sun/lightning icons. It is more legible
// on e-paper than pure yellow and quantizes to the yellow palette slot.
var gold = color.NRGBA{R: 0xFF, G: 0xB4, B: 0x00, A: 0xFF}

// assignable is the set of colors a calendar may claim, in cycling
// priority order. Black and white are reserved for text, borders and
// background and must never become data colors.
var assignable = [...]ColorIndex{Red, Yellow, Green, Blue}

// ResolveKey maps a calendar color key to its palette index. Keys outside
// the four assignable colors are rejected with a ConfigError rather than
// silently defaulted: upstream validation should have caught them, and
// falling back to black would hijack an outline color for data.
func ResolveKey(key string) (ColorIndex, error) {
	switch key {
	case "red":
		return Red, nil
	case "yellow":
		return Yellow, nil
	case "green":
		return Green, nil
	case "blue":
		return Blue, nil
	}
	return Black, configErr("color", key, "not an assignable calendar color")
}

// AssignColorKeys resolves a color key for every calendar. Calendars with
// an explicit valid color keep it; the rest cycle through the assignable
// set in configuration declaration order, modulo 4. An explicit key
// outside the assignable set is a ConfigError.
func AssignColorKeys(cals []CalendarRef) (map[string]string, error) {
	keys := make(map[string]string, len(cals))
	for i, cal := range cals {
		key := cal.Color
		if key == "" {
			key = assignable[i%len(assignable)].String()
		} else if _, err := ResolveKey(key); err != nil {
			return nil, err
		}
		keys[cal.ID] = key
		appLog.Debug("calendar color assigned", "calendar", cal.ID, "color", key)
	}
	return keys, nil
}
