package render

import "time"

// composeAgenda fills the body with a chronological list grouped by day
// for Agenda.DaysAhead days from the reference date. Each entry shows the
// calendar color square, time (unless all-day), title and calendar name;
// a calendar legend sits at the bottom of the body.
func composeAgenda(c *canvas, r region, cfg ViewConfig, evs []event, now time.Time) {
	const pad = 20
	legendH := 30
	bottom := r.y + r.h - legendH

	c.setFont(FontHandle{Face: c.fonts.face(true, 20), Size: 20})
	c.setColor(Black)
	c.text("Upcoming Events", float64(r.x+r.w/2), float64(r.y+8), alignCenter, float64(r.w))

	days := cfg.Agenda.DaysAhead
	if days <= 0 {
		days = 14
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	dateFont := FontHandle{Face: c.fonts.face(true, 16), Size: 16}
	entryFont := FontHandle{Face: c.fonts.face(false, 14), Size: 14}
	lineH := 24

	y := r.y + 42
	truncated := false
	for d := 0; d < days && !truncated; d++ {
		day := today.AddDate(0, 0, d)
		dayEvents := eventsOnDay(evs, day)
		if len(dayEvents) == 0 {
			continue
		}

		if !cfg.Agenda.ShowAllEvents {
			capacity := cfg.Agenda.MaxEventsPerDay
			if capacity <= 0 {
				capacity = 3
			}
			if len(dayEvents) > capacity {
				dayEvents = dayEvents[:capacity]
			}
		}

		if y+lineH+len(dayEvents)*lineH > bottom {
			c.setFont(entryFont)
			c.setColor(Black)
			c.text("... (more events not shown)", float64(r.x+pad), float64(y), alignLeft, float64(r.w-2*pad))
			break
		}

		// Day-group separator header with underline.
		label := day.Format("Monday, January 2")
		switch d {
		case 0:
			label = "TODAY - " + label
		case 1:
			label = "TOMORROW - " + label
		}
		c.setFont(dateFont)
		c.setColor(Black)
		lw := c.text(label, float64(r.x+pad), float64(y), alignLeft, float64(r.w-2*pad))
		c.hline(float64(r.x+pad), float64(r.x+pad)+lw, float64(y+20), Black, 1)
		y += lineH + 4

		for _, ev := range dayEvents {
			if y+lineH > bottom {
				truncated = true
				break
			}
			c.box(float64(r.x+pad+10), float64(y+4), 10, 10, ev.color.NRGBA(), nil, 0)

			text := ev.Title
			if ev.AllDay {
				text += " (All Day)"
			} else {
				text = ev.Start.Format("3:04 PM") + " - " + text
			}
			if ev.CalendarName != "" {
				text += " (" + ev.CalendarName + ")"
			}
			c.setFont(entryFont)
			c.setColor(Black)
			textX := float64(r.x + pad + 30)
			c.text(text, textX, float64(y), alignLeft, float64(r.x+r.w-pad)-textX)
			y += lineH
		}
		y += 10
	}

	drawLegend(c, region{x: r.x, y: bottom, w: r.w, h: legendH}, cfg.Calendars)
}

// drawLegend draws a color swatch plus display name for every configured
// calendar, in declaration order.
func drawLegend(c *canvas, r region, cals []CalendarRef) {
	keys, err := AssignColorKeys(cals)
	if err != nil {
		// Render already validated the keys; nothing sane to draw here.
		return
	}

	c.setFont(FontHandle{Face: c.fonts.face(false, 14), Size: 14})
	x := float64(r.x + 20)
	for _, cal := range cals {
		ci, rerr := ResolveKey(keys[cal.ID])
		if rerr != nil {
			continue
		}
		name := cal.Name
		if name == "" {
			name = cal.ID
		}
		c.box(x, float64(r.y+8), 14, 14, ci.NRGBA(), Black.NRGBA(), 1)
		c.setColor(Black)
		w := c.text(name, x+20, float64(r.y+7), alignLeft, 140)
		x += 20 + w + 24
		if x > float64(r.x+r.w-60) {
			break
		}
	}
}
