package render

import "time"

// composeWeek fills the body with a single 1x7 row of tall cells: more
// vertical room per day, higher capacity and 24h time prefixes.
func composeWeek(c *canvas, r region, cfg ViewConfig, evs []event, now time.Time) {
	colW := r.w / 7
	start := weekStartOf(now, cfg.WeekStart)

	for col := 0; col < 7; col++ {
		day := start.AddDate(0, 0, col)
		cell := region{x: r.x + col*colW, y: r.y, w: colW, h: r.h}
		drawListDayCell(c, cell, day, cfg.Week, eventsOnDay(evs, day), sameDay(day, now), "15:04")
	}
}

// drawListDayCell renders a tall day cell where each event is a thin
// calendar-colored bar beside black text, the week/four-day style.
func drawListDayCell(c *canvas, cell region, day time.Time, opts ViewOptions, evs []event, isToday bool, timeLayout string) {
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
	c.text(day.Format("Mon 2"), x+pad, y+pad, alignLeft, w-2*pad)

	area := region{x: cell.x + pad, y: cell.y + 40, w: cell.w - 2*pad, h: cell.h - 46}
	capacity := opts.MaxEventsPerDay
	if capacity <= 0 {
		capacity = derivedCapacity(area.h)
	}

	lines, _ := layoutCell(evs, capacity, opts.ShowTime, timeLayout)
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
		cur += float64(lineH) + 3
	}
}
