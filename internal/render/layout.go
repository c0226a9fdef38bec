package render

import (
	"fmt"
	"sort"
	"time"

	appLog "inkcal/internal/log"
	"inkcal/internal/model"
)

// minLineHeight bounds how small a rendered event line can get; it drives
// derived per-cell capacity when max_events_per_day is 0.
const minLineHeight = 14

// event is a CalendarEvent with its palette color resolved and its
// calendar priority (configuration declaration order) attached.
type event struct {
	model.CalendarEvent
	color ColorIndex
	prio  int
}

// line is one rendered row inside a cell: either a real event or the
// synthesized "+N more" overflow indicator.
type line struct {
	text     string
	color    ColorIndex
	overflow bool
}

// prepareEvents validates and adapts the caller's events for layout:
// colors are resolved (fatal ConfigError on an unassignable key), and
// end < start is clamped to a single instant with a warning instead of
// aborting the frame.
func prepareEvents(events []model.CalendarEvent, prio map[string]int) ([]event, error) {
	out := make([]event, 0, len(events))
	for _, ev := range events {
		ci, err := ResolveKey(ev.Color)
		if err != nil {
			return nil, err
		}
		if ev.End.Before(ev.Start) {
			appLog.Warn("event end before start, clamping",
				"calendar", ev.CalendarID, "title", ev.Title, "start", ev.Start, "end", ev.End)
			ev.End = ev.Start
		}
		out = append(out, event{CalendarEvent: ev, color: ci, prio: prio[ev.CalendarID]})
	}
	return out, nil
}

// sortEvents orders events for display: all-day events first, then start
// time ascending, then calendar priority, then title for determinism.
func sortEvents(evs []event) {
	sort.SliceStable(evs, func(i, j int) bool {
		a, b := evs[i], evs[j]
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.prio != b.prio {
			return a.prio < b.prio
		}
		return a.Title < b.Title
	})
}

// eventsOnDay returns the events touching the given calendar day, sorted
// for display. A multi-day event appears once per day it touches; a
// zero-duration event counts only on its start day.
func eventsOnDay(evs []event, day time.Time) []event {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var out []event
	for _, ev := range evs {
		if ev.Start.Equal(ev.End) {
			if !ev.Start.Before(dayStart) && ev.Start.Before(dayEnd) {
				out = append(out, ev)
			}
			continue
		}
		// Half-open [Start, End) overlap with [dayStart, dayEnd).
		if ev.Start.Before(dayEnd) && ev.End.After(dayStart) {
			out = append(out, ev)
		}
	}
	sortEvents(out)
	return out
}

// layoutCell decides which events a cell shows. With len(evs) <= capacity
// every event gets a line. Otherwise the first capacity-1 events are shown
// and the last slot is reserved for a "+N more" indicator, so the total
// never exceeds capacity. timeLayout is the time prefix format ("" or when
// showTime is false, titles render bare).
func layoutCell(evs []event, capacity int, showTime bool, timeLayout string) (lines []line, overflow int) {
	if capacity < 1 {
		capacity = 1
	}

	shown := evs
	if len(evs) > capacity {
		shown = evs[:capacity-1]
		overflow = len(evs) - (capacity - 1)
	}

	lines = make([]line, 0, len(shown)+1)
	for _, ev := range shown {
		lines = append(lines, line{text: eventText(ev, showTime, timeLayout), color: ev.color})
	}
	if overflow > 0 {
		lines = append(lines, line{
			text:     fmt.Sprintf("+%d more", overflow),
			color:    Black,
			overflow: true,
		})
	}
	return lines, overflow
}

// derivedCapacity infers how many lines fit a cell when the view does not
// pin max_events_per_day.
func derivedCapacity(cellHeight int) int {
	n := cellHeight / minLineHeight
	if n < 1 {
		n = 1
	}
	return n
}

func eventText(ev event, showTime bool, timeLayout string) string {
	if showTime && !ev.AllDay && timeLayout != "" {
		return ev.Start.Format(timeLayout) + " " + ev.Title
	}
	return ev.Title
}

// truncate shortens s to fit maxWidth using the given measure function,
// appending an ellipsis. Cutting happens at rune boundaries so multi-byte
// characters are never split.
func truncate(s string, maxWidth float64, measure func(string) float64) string {
	if measure(s) <= maxWidth {
		return s
	}
	const ellipsis = "..."
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if measure(string(runes)+ellipsis) <= maxWidth {
			return string(runes) + ellipsis
		}
	}
	return ellipsis
}
