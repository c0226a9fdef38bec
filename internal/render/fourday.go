package render

import "time"

// composeFourDay fills the body with four wide columns: today plus the
// next three days, with the highest per-cell capacity of the grid views.
func composeFourDay(c *canvas, r region, cfg ViewConfig, evs []event, now time.Time) {
	colW := r.w / 4
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for col := 0; col < 4; col++ {
		day := today.AddDate(0, 0, col)
		cell := region{x: r.x + col*colW, y: r.y, w: colW, h: r.h}
		drawDayColumn(c, cell, day, cfg.FourDay, eventsOnDay(evs, day), col == 0)
	}
}

// drawDayColumn renders one four-day column: full weekday name, date line,
// then a detailed event listing in the week-view style.
func drawDayColumn(c *canvas, cell region, day time.Time, opts ViewOptions, evs []event, isToday bool) {
	x, y := float64(cell.x), float64(cell.y)
	w, h := float64(cell.w), float64(cell.h)

	border := 1.0
	if isToday {
		border = 3
	}
	c.box(x, y, w, h, nil, Black.NRGBA(), border)

	const pad = 8
	c.setFont(FontHandle{Face: c.fonts.face(true, 20), Size: 20})
	c.setColor(Black)
	c.text(day.Format("Monday"), x+pad, y+pad, alignLeft, w-2*pad)
	c.setFont(FontHandle{Face: c.fonts.face(false, 14), Size: 14})
	c.text(day.Format("Jan 2"), x+pad, y+pad+28, alignLeft, w-2*pad)

	area := region{x: cell.x + pad, y: cell.y + 58, w: cell.w - 2*pad, h: cell.h - 64}
	capacity := opts.MaxEventsPerDay
	if capacity <= 0 {
		capacity = derivedCapacity(area.h)
	}

	lines, _ := layoutCell(evs, capacity, opts.ShowTime, "3:04 PM")
	font := c.fonts.Select(RoleBody, area.h, len(lines))
	lineH := font.LineHeight()

	cur := float64(area.y)
	for _, ln := range lines {
		if cur+float64(lineH) > float64(area.y+area.h) {
			break
		}
		c.setFont(font)
		textX := float64(area.x)
		if !ln.overflow {
			c.box(float64(area.x), cur+2, 4, float64(lineH)-4, ln.color.NRGBA(), nil, 0)
			textX += 10
		}
		c.setColor(Black)
		c.text(ln.text, textX, cur, alignLeft, float64(area.x+area.w)-textX)
		cur += float64(lineH) + 4
	}
}
