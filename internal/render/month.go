package render

import "time"

// composeMonth fills the body with a standard month grid. Cells show
// colored dot indicators (one per calendar color with events that day,
// deduplicated, at most the four assignable colors) instead of event
// text; leading/trailing days from adjacent months are muted.
func composeMonth(c *canvas, r region, cfg ViewConfig, evs []event, now time.Time) {
	colW := r.w / 7

	c.setFont(FontHandle{Face: c.fonts.face(true, 20), Size: 20})
	c.setColor(Black)
	c.text(now.Format("January 2006"), float64(r.x+r.w/2), float64(r.y+6), alignCenter, float64(r.w))

	// Weekday header row.
	c.setFont(FontHandle{Face: c.fonts.face(false, 14), Size: 14})
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	gridStart := weekStartOf(first, cfg.WeekStart)
	for col := 0; col < 7; col++ {
		name := gridStart.AddDate(0, 0, col).Format("Mon")
		c.text(name, float64(r.x+col*colW+colW/2), float64(r.y+34), alignCenter, float64(colW))
	}

	gridTop := r.y + 54
	rowH := (r.h - 54) / 6

	day := gridStart
	for row := 0; row < 6; row++ {
		for col := 0; col < 7; col++ {
			cell := region{x: r.x + col*colW, y: gridTop + row*rowH, w: colW, h: rowH}
			drawMonthDayCell(c, cell, day, cfg.Month, eventsOnDay(evs, day),
				sameDay(day, now), day.Month() == now.Month())
			day = day.AddDate(0, 0, 1)
		}
	}
}

func drawMonthDayCell(c *canvas, cell region, day time.Time, opts ViewOptions, evs []event, isToday, inMonth bool) {
	x, y := float64(cell.x), float64(cell.y)
	w, h := float64(cell.w), float64(cell.h)

	border := 1.0
	if isToday {
		border = 3
	}
	c.box(x, y, w, h, nil, Black.NRGBA(), border)

	// Muted tone for adjacent-month days: the panel has no gray, so the
	// day number drops to the small label size in blue.
	const pad = 5
	if inMonth {
		c.setFont(FontHandle{Face: c.fonts.face(false, 16), Size: 16})
		c.setColor(Black)
	} else {
		c.setFont(FontHandle{Face: c.fonts.face(false, 12), Size: 12})
		c.setColor(Blue)
	}
	c.text(day.Format("2"), x+pad, y+pad, alignLeft, w-2*pad)

	if !inMonth {
		return
	}

	dots := dayDotColors(evs)
	if len(dots) == 0 {
		return
	}
	dotR := 5.0
	if len(dots) > 2 {
		dotR = 4
	}
	dx := x + pad + dotR
	dy := y + 32 + dotR
	for _, ci := range dots {
		if dx+dotR > x+w-pad {
			dx = x + pad + dotR
			dy += dotR*2 + 4
			if dy+dotR > y+h {
				break
			}
		}
		c.dot(dx, dy, dotR, ci)
		dx += dotR*2 + 5
	}
}

// dayDotColors returns the distinct calendar colors among a day's events,
// in display sort order. A calendar with several events that day yields a
// single dot; the result never exceeds the four assignable colors.
func dayDotColors(evs []event) []ColorIndex {
	seen := make(map[ColorIndex]bool, 4)
	var out []ColorIndex
	for _, ev := range evs {
		if seen[ev.color] {
			continue
		}
		seen[ev.color] = true
		out = append(out, ev.color)
		if len(out) == len(assignable) {
			break
		}
	}
	return out
}
