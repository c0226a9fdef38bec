// Package convert packs a palette-indexed frame into the framebuffer
// format of the Waveshare 7.3" (E) six-color panel.
package convert

import (
	"fmt"
	"image"

	"inkcal/internal/render"
)

// Panel geometry (7.3" E, six-color).
const (
	PanelWidth  = 800
	PanelHeight = 480
	// Two pixels per byte, high nibble first.
	PanelBufSize = PanelWidth * PanelHeight / 2
)

// PackPaletted converts a rendered frame into the panel framebuffer.
//
// Requirements / behavior:
//   - img must be exactly PanelWidth x PanelHeight.
//   - img must use the render palette; each palette index maps to the
//     controller's data code via ColorIndex.PanelCode.
//   - Packing is y-major, two pixels per byte:
//     buf[y*400 + x/2] = code(x)<<4 | code(x+1)
func PackPaletted(img *image.Paletted) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() != PanelWidth || b.Dy() != PanelHeight {
		return nil, fmt.Errorf("convert: expected %dx%d frame, got %dx%d",
			PanelWidth, PanelHeight, b.Dx(), b.Dy())
	}
	if len(img.Palette) > len(render.Palette) {
		return nil, fmt.Errorf("convert: palette has %d entries, want <= %d",
			len(img.Palette), len(render.Palette))
	}

	buf := make([]byte, PanelBufSize)
	for y := 0; y < PanelHeight; y++ {
		row := y * img.Stride
		out := y * PanelWidth / 2
		for x := 0; x < PanelWidth; x += 2 {
			hi := render.ColorIndex(img.Pix[row+x]).PanelCode()
			lo := render.ColorIndex(img.Pix[row+x+1]).PanelCode()
			buf[out+x/2] = hi<<4 | lo
		}
	}
	return buf, nil
}
