package render

import (
	"image/color"

	"github.com/fogleman/gg"
)

// align constants for canvas.text.
type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// region is a pixel rectangle a composer may draw into.
type region struct {
	x, y, w, h int
}

// canvas wraps a gg drawing context with the shared helpers every view
// composer needs: palette-indexed colors, aligned/truncated text, boxes.
// It is created per render and discarded with the frame.
type canvas struct {
	dc    *gg.Context
	fonts *FontCache
}

func newCanvas(w, h int, fonts *FontCache) *canvas {
	dc := gg.NewContext(w, h)
	dc.SetColor(White.NRGBA())
	dc.Clear()
	return &canvas{dc: dc, fonts: fonts}
}

func (c *canvas) setColor(ci ColorIndex) {
	c.dc.SetColor(ci.NRGBA())
}

func (c *canvas) setFont(h FontHandle) {
	c.dc.SetFontFace(h.Face)
}

// measure returns the advance width of s under the current font face.
func (c *canvas) measure(s string) float64 {
	w, _ := c.dc.MeasureString(s)
	return w
}

// text draws s anchored at (x, y) where y is the top of the line, using
// the current font and color. When maxWidth > 0 the string is truncated
// with an ellipsis first. Returns the drawn width.
func (c *canvas) text(s string, x, y float64, a align, maxWidth float64) float64 {
	if maxWidth > 0 {
		s = truncate(s, maxWidth, c.measure)
	}
	w, h := c.dc.MeasureString(s)
	switch a {
	case alignCenter:
		x -= w / 2
	case alignRight:
		x -= w
	}
	// gg anchors strings at the baseline; h approximates the ascent.
	c.dc.DrawString(s, x, y+h)
	return w
}

// box draws a rectangle. fill and outline may each be nil to skip.
func (c *canvas) box(x, y, w, h float64, fill color.Color, outline color.Color, outlineWidth float64) {
	if fill != nil {
		c.dc.SetColor(fill)
		c.dc.DrawRectangle(x, y, w, h)
		c.dc.Fill()
	}
	if outline != nil {
		c.dc.SetColor(outline)
		c.dc.SetLineWidth(outlineWidth)
		// Inset by half the stroke so the outline stays inside the cell.
		c.dc.DrawRectangle(x+outlineWidth/2, y+outlineWidth/2, w-outlineWidth, h-outlineWidth)
		c.dc.Stroke()
	}
}

func (c *canvas) hline(x0, x1, y float64, ci ColorIndex, width float64) {
	c.setColor(ci)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(x0, y, x1, y)
	c.dc.Stroke()
}

func (c *canvas) dot(cx, cy, r float64, ci ColorIndex) {
	c.setColor(ci)
	c.dc.DrawCircle(cx, cy, r)
	c.dc.Fill()
}
