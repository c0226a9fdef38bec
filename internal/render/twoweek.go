package render

import "time"

// composeTwoWeek fills the body with a 2x7 grid: the current calendar
// week and the one after it. The reference date's cell gets a bold green
// outline.
func composeTwoWeek(c *canvas, r region, cfg ViewConfig, evs []event, now time.Time) {
	rowH := r.h / 2
	colW := r.w / 7
	start := weekStartOf(now, cfg.WeekStart)

	for row := 0; row < 2; row++ {
		for col := 0; col < 7; col++ {
			day := start.AddDate(0, 0, row*7+col)
			cell := region{x: r.x + col*colW, y: r.y + row*rowH, w: colW, h: rowH}
			drawBarDayCell(c, cell, day, cfg.TwoWeek, eventsOnDay(evs, day), sameDay(day, now))
		}
	}
}

// drawBarDayCell renders a compact day cell where each event is a colored
// bar with white text, the two-week grid style. A day with no events still
// gets its border and date label.
func drawBarDayCell(c *canvas, cell region, day time.Time, opts ViewOptions, evs []event, isToday bool) {
	x, y := float64(cell.x), float64(cell.y)
	w, h := float64(cell.w), float64(cell.h)

	c.box(x, y, w, h, nil, Black.NRGBA(), 1)
	if isToday {
		c.box(x, y, w, h, nil, Green.NRGBA(), 3)
	}

	const pad = 5
	c.setFont(FontHandle{Face: c.fonts.face(false, 14), Size: 14})
	c.setColor(Black)
	c.text(day.Format("Mon 2"), x+pad, y+pad, alignLeft, w-2*pad)

	area := region{x: cell.x + pad, y: cell.y + 26, w: cell.w - 2*pad, h: cell.h - 32}
	capacity := opts.MaxEventsPerDay
	if capacity <= 0 {
		capacity = derivedCapacity(area.h)
	}

	lines, _ := layoutCell(evs, capacity, opts.ShowTime, "3:04 PM")
	font := c.fonts.Select(RoleBody, area.h, len(lines))
	lineH := font.LineHeight()

	cur := float64(area.y)
	for _, ln := range lines {
		if cur+float64(lineH)+4 > float64(area.y+area.h) {
			break
		}
		c.setFont(font)
		if ln.overflow {
			c.setColor(Black)
			c.text(ln.text, float64(area.x), cur+2, alignLeft, float64(area.w))
		} else {
			c.box(float64(area.x), cur, float64(area.w), float64(lineH)+3, ln.color.NRGBA(), nil, 0)
			c.setColor(White)
			c.text(ln.text, float64(area.x)+3, cur+2, alignLeft, float64(area.w)-6)
		}
		cur += float64(lineH) + 5
	}
}

// weekStartOf returns midnight of the most recent weekStart day at or
// before t, in t's location.
func weekStartOf(t time.Time, weekStart time.Weekday) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	diff := (int(midnight.Weekday()) - int(weekStart) + 7) % 7
	return midnight.AddDate(0, 0, -diff)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
