package ics

import (
	"context"
	"sort"
	"time"

	appLog "inkcal/internal/log"
	"inkcal/internal/model"
)

// LoadEvents runs the full acquisition path for one render: fetch every
// source, parse, expand recurrences into [from, to], and de-duplicate.
// The result is timezone-normalized and ready for color assignment; a
// failing source degrades to its cached (or no) events, never an error.
func LoadEvents(ctx context.Context, f *Fetcher, sources []Source, loc *time.Location, from, to time.Time) ([]model.CalendarEvent, error) {
	results := f.FetchAll(ctx, sources)

	var parsed []ParsedEvent
	for _, res := range results {
		evs, err := ParseICS(res.Source, res.Body)
		if err != nil {
			appLog.Error("ics parse failed", err, "id", res.Source.ID)
			continue
		}
		parsed = append(parsed, evs...)
	}

	events, err := Expand(parsed, ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      from,
		RangeEnd:        to,
	})
	if err != nil {
		return nil, err
	}

	events = dedup(events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })

	appLog.Info("events loaded", "sources", len(sources), "events", len(events))
	return events, nil
}

// dedup drops exact duplicate instances: the same calendar, title and
// start can appear twice when a feed repeats a VEVENT or an override
// shadows its base occurrence.
func dedup(events []model.CalendarEvent) []model.CalendarEvent {
	type key struct {
		cal   string
		title string
		start int64
	}
	seen := make(map[key]bool, len(events))
	out := events[:0]
	for _, ev := range events {
		k := key{cal: ev.CalendarID, title: ev.Title, start: ev.Start.UnixNano()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ev)
	}
	return out
}
