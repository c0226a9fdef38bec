package ics

import (
	"strings"
	"testing"
	"time"
)

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:simple-1@example.com
DTSTART:20260310T140000Z
DTEND:20260310T150000Z
SUMMARY:Team sync
LOCATION:Room 4
END:VEVENT
BEGIN:VEVENT
UID:allday-1@example.com
DTSTART;VALUE=DATE:20260312
DTEND;VALUE=DATE:20260313
SUMMARY:Spring break
END:VEVENT
BEGIN:VEVENT
UID:weekly-1@example.com
DTSTART:20260302T090000Z
DTEND:20260302T093000Z
RRULE:FREQ=WEEKLY;BYDAY=MO
EXDATE:20260316T090000Z
SUMMARY:Standup
END:VEVENT
BEGIN:VEVENT
DTSTART:20260310T140000Z
SUMMARY:No UID, skipped
END:VEVENT
END:VCALENDAR
`

func TestParseICS(t *testing.T) {
	src := Source{ID: "work", Name: "Work", URL: "https://example.com/work.ics"}
	events, err := ParseICS(src, []byte(strings.ReplaceAll(sampleICS, "\n", "\r\n")))
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	// The UID-less event is skipped, not fatal.
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	byUID := make(map[string]ParsedEvent, len(events))
	for _, ev := range events {
		byUID[ev.UID] = ev
	}

	simple, ok := byUID["simple-1@example.com"]
	if !ok {
		t.Fatal("simple event missing")
	}
	if simple.Summary != "Team sync" || simple.Location != "Room 4" {
		t.Errorf("simple = %+v", simple)
	}
	wantStart := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	if !simple.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", simple.Start, wantStart)
	}
	if simple.AllDay {
		t.Error("timed event flagged all-day")
	}
	if simple.Source.ID != "work" {
		t.Errorf("source = %+v", simple.Source)
	}

	allday, ok := byUID["allday-1@example.com"]
	if !ok {
		t.Fatal("all-day event missing")
	}
	if !allday.AllDay {
		t.Error("VALUE=DATE event not flagged all-day")
	}

	weekly, ok := byUID["weekly-1@example.com"]
	if !ok {
		t.Fatal("recurring event missing")
	}
	if weekly.RawRRule != "FREQ=WEEKLY;BYDAY=MO" {
		t.Errorf("rrule = %q", weekly.RawRRule)
	}
	if len(weekly.ExDates) != 1 {
		t.Fatalf("exdates = %v, want one", weekly.ExDates)
	}
	wantEx := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	if !weekly.ExDates[0].Equal(wantEx) {
		t.Errorf("exdate = %v, want %v", weekly.ExDates[0], wantEx)
	}
}

func TestParseICSEmptyBody(t *testing.T) {
	if _, err := ParseICS(Source{ID: "x"}, nil); err == nil {
		t.Error("want error for empty body")
	}
}
