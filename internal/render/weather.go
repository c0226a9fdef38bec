package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"inkcal/internal/model"
)

// badgeContext selects the icon color rules. Grid views place the badge
// on the dark header band, so icons render in a single neutral white for
// contrast. The agenda view has a light background and uses the full
// condition color table, with gold icons outlined in black.
type badgeContext int

const (
	badgeGrid badgeContext = iota
	badgeAgenda
)

// conditionColor maps a weather condition code to its semantic icon color
// (agenda context only).
func conditionColor(cond string) color.Color {
	switch cond {
	case "sunny", "partlycloudy", "lightning", "lightning-rainy":
		return gold
	case "clear-night", "rainy", "pouring", "snowy", "snowy-rainy", "hail":
		return Blue.NRGBA()
	case "exceptional":
		return Red.NRGBA()
	default:
		// cloudy, fog, windy, windy-variant, unknown
		return Black.NRGBA()
	}
}

// drawWeatherBadge renders the condition icon plus temperature, right
// aligned so the badge ends at the given right edge and is vertically
// centered in [top, top+h]. An invalid snapshot draws nothing and
// reserves no space; weather failure must never block the frame.
func drawWeatherBadge(c *canvas, snap model.WeatherSnapshot, right, top, h float64, ctx badgeContext) {
	if !snap.Valid {
		return
	}

	fill := conditionColor(snap.Condition)
	text := Black.NRGBA()
	outline := ctx == badgeAgenda && fill == gold
	if ctx == badgeGrid {
		fill = White.NRGBA()
		text = White.NRGBA()
	}

	temp := fmt.Sprintf("%.0f°%s", snap.Temperature, snap.Unit)

	c.setFont(FontHandle{Face: c.fonts.face(true, 20), Size: 20})
	c.dc.SetColor(text)
	tw, _ := c.dc.MeasureString(temp)
	cy := top + h/2
	c.dc.DrawStringAnchored(temp, right-tw/2, cy, 0.5, 0.35)

	r := h * 0.32
	cx := right - tw - r - 10
	drawConditionIcon(c.dc, snap.Condition, cx, cy, r, fill, outline)
}

// iconPainter draws icon primitives either plainly or stroke-then-fill:
// the path is first stroked with a bold black line, then filled, giving
// gold glyphs a contrast outline on light backgrounds.
type iconPainter struct {
	dc      *gg.Context
	fill    color.Color
	outline bool
	stroke  float64
}

func (p iconPainter) paint(path func()) {
	if p.outline {
		path()
		p.dc.SetColor(Black.NRGBA())
		p.dc.SetLineWidth(p.stroke)
		p.dc.StrokePreserve()
		p.dc.SetColor(p.fill)
		p.dc.Fill()
		return
	}
	path()
	p.dc.SetColor(p.fill)
	p.dc.Fill()
}

// line draws a stroked segment; with outline enabled a thicker black
// stroke goes underneath.
func (p iconPainter) line(x0, y0, x1, y1, w float64) {
	if p.outline {
		p.dc.SetColor(Black.NRGBA())
		p.dc.SetLineWidth(w + p.stroke)
		p.dc.DrawLine(x0, y0, x1, y1)
		p.dc.Stroke()
	}
	p.dc.SetColor(p.fill)
	p.dc.SetLineWidth(w)
	p.dc.DrawLine(x0, y0, x1, y1)
	p.dc.Stroke()
}

// drawConditionIcon draws the vector glyph for a condition, centered at
// (cx, cy) with radius r.
func drawConditionIcon(dc *gg.Context, cond string, cx, cy, r float64, fill color.Color, outline bool) {
	p := iconPainter{dc: dc, fill: fill, outline: outline, stroke: math.Max(2, r*0.22)}

	switch cond {
	case "sunny":
		p.sun(cx, cy, r)
	case "clear-night":
		p.moon(cx, cy, r)
	case "partlycloudy":
		p.sun(cx+r*0.35, cy-r*0.35, r*0.6)
		p.cloud(cx-r*0.15, cy+r*0.2, r*0.75)
	case "rainy":
		p.cloud(cx, cy-r*0.25, r*0.85)
		p.rain(cx, cy+r*0.45, r, 3, r*0.45)
	case "pouring":
		p.cloud(cx, cy-r*0.25, r*0.85)
		p.rain(cx, cy+r*0.45, r, 4, r*0.7)
	case "snowy", "snowy-rainy", "hail":
		p.cloud(cx, cy-r*0.25, r*0.85)
		p.flakes(cx, cy+r*0.6, r)
	case "lightning", "lightning-rainy":
		p.cloud(cx, cy-r*0.3, r*0.85)
		p.bolt(cx, cy+r*0.35, r*0.8)
	case "windy", "windy-variant":
		p.wind(cx, cy, r)
	case "fog":
		p.cloud(cx, cy-r*0.35, r*0.75)
		p.line(cx-r*0.8, cy+r*0.35, cx+r*0.8, cy+r*0.35, math.Max(2, r*0.12))
		p.line(cx-r*0.6, cy+r*0.7, cx+r*0.6, cy+r*0.7, math.Max(2, r*0.12))
	case "exceptional":
		p.warning(cx, cy, r)
	default:
		p.cloud(cx, cy, r*0.9)
	}
}

func (p iconPainter) sun(cx, cy, r float64) {
	core := r * 0.55
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		p.line(cx+math.Cos(a)*core*1.25, cy+math.Sin(a)*core*1.25,
			cx+math.Cos(a)*r, cy+math.Sin(a)*r, math.Max(2, r*0.14))
	}
	p.paint(func() { p.dc.DrawCircle(cx, cy, core) })
}

func (p iconPainter) moon(cx, cy, r float64) {
	// Crescent: full disc with an offset disc subtracted via even-odd arcs
	// is awkward in gg, so approximate with two arcs joined.
	p.paint(func() {
		p.dc.MoveTo(cx, cy-r)
		p.dc.DrawArc(cx, cy, r, -math.Pi/2, math.Pi/2)
		p.dc.DrawArc(cx+r*0.45, cy, r*0.75, math.Pi/2, -math.Pi/2)
		p.dc.ClosePath()
	})
}

func (p iconPainter) cloud(cx, cy, r float64) {
	p.paint(func() {
		p.dc.DrawCircle(cx-r*0.55, cy+r*0.1, r*0.5)
		p.dc.DrawCircle(cx, cy-r*0.2, r*0.65)
		p.dc.DrawCircle(cx+r*0.6, cy+r*0.15, r*0.45)
		p.dc.DrawRectangle(cx-r*0.55, cy+r*0.1, r*1.15, r*0.5)
	})
}

func (p iconPainter) rain(cx, y, r float64, n int, length float64) {
	span := r * 1.1
	for i := 0; i < n; i++ {
		x := cx - span/2 + span*float64(i)/float64(n-1)
		p.line(x, y, x-length*0.3, y+length, math.Max(2, r*0.12))
	}
}

func (p iconPainter) flakes(cx, y, r float64) {
	span := r * 1.1
	for i := 0; i < 3; i++ {
		x := cx - span/2 + span*float64(i)/2
		p.paint(func() { p.dc.DrawCircle(x, y, r*0.14) })
	}
}

func (p iconPainter) bolt(cx, cy, s float64) {
	p.paint(func() {
		p.dc.MoveTo(cx-s*0.1, cy-s*0.5)
		p.dc.LineTo(cx+s*0.25, cy-s*0.5)
		p.dc.LineTo(cx+s*0.05, cy-s*0.05)
		p.dc.LineTo(cx+s*0.3, cy-s*0.05)
		p.dc.LineTo(cx-s*0.2, cy+s*0.55)
		p.dc.LineTo(cx-s*0.02, cy+s*0.1)
		p.dc.LineTo(cx-s*0.28, cy+s*0.1)
		p.dc.ClosePath()
	})
}

func (p iconPainter) wind(cx, cy, r float64) {
	w := math.Max(2, r*0.14)
	p.line(cx-r, cy-r*0.4, cx+r*0.7, cy-r*0.4, w)
	p.line(cx-r, cy, cx+r, cy, w)
	p.line(cx-r, cy+r*0.4, cx+r*0.4, cy+r*0.4, w)
}

func (p iconPainter) warning(cx, cy, r float64) {
	p.paint(func() {
		p.dc.MoveTo(cx, cy-r)
		p.dc.LineTo(cx+r*0.95, cy+r*0.75)
		p.dc.LineTo(cx-r*0.95, cy+r*0.75)
		p.dc.ClosePath()
	})
	// Exclamation mark, always black for legibility.
	p.dc.SetColor(Black.NRGBA())
	p.dc.SetLineWidth(math.Max(2, r*0.16))
	p.dc.DrawLine(cx, cy-r*0.45, cx, cy+r*0.2)
	p.dc.Stroke()
	p.dc.DrawCircle(cx, cy+r*0.5, math.Max(1.5, r*0.1))
	p.dc.Fill()
}
