package render

import (
	"testing"
	"time"

	"inkcal/internal/model"
)

func TestAgendaShowsCalendarColors(t *testing.T) {
	fonts := NewFontCache()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cfg := testViewConfig(ViewAgenda)
	in := Inputs{
		Events: []model.CalendarEvent{
			mkEvent("family", "Dentist", "red", now.Add(2*time.Hour), time.Hour, false),
			mkEvent("work", "Planning", "blue", now.AddDate(0, 0, 1), time.Hour, false),
		},
		Now: now,
	}

	img, err := Render(cfg, fonts, in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	counts := make(map[uint8]int)
	for _, idx := range img.Pix {
		counts[idx]++
	}
	// Entry squares and legend swatches must put both calendar colors on
	// the frame.
	if counts[uint8(Red)] == 0 {
		t.Error("no red pixels for the family calendar")
	}
	if counts[uint8(Blue)] == 0 {
		t.Error("no blue pixels for the work calendar")
	}
}

func TestAgendaCapsEntriesWhenNotShowingAll(t *testing.T) {
	fonts := NewFontCache()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cfg := testViewConfig(ViewAgenda)
	cfg.Agenda.ShowAllEvents = false
	cfg.Agenda.MaxEventsPerDay = 2

	var events []model.CalendarEvent
	for i := 0; i < 10; i++ {
		events = append(events, mkEvent("family", "Busy", "red", now.Add(time.Duration(i)*time.Hour), 30*time.Minute, false))
	}

	if _, err := Render(cfg, fonts, Inputs{Events: events, Now: now}); err != nil {
		t.Fatalf("Render: %v", err)
	}
}
