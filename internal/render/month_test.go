package render

import (
	"testing"
	"time"

	"inkcal/internal/model"
)

func TestDayDotColors(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	mk := func(colors ...string) []event {
		var events []model.CalendarEvent
		for i, col := range colors {
			events = append(events, mkEvent("cal-"+col, string(rune('A'+i)), col,
				base.Add(time.Duration(i)*time.Hour), time.Hour, false))
		}
		return mustPrepare(t, events, nil)
	}

	tests := []struct {
		name   string
		colors []string
		want   []ColorIndex
	}{
		{name: "no events", colors: nil, want: nil},
		{name: "single", colors: []string{"red"}, want: []ColorIndex{Red}},
		{
			name:   "duplicates collapse",
			colors: []string{"red", "red", "blue", "red"},
			want:   []ColorIndex{Red, Blue},
		},
		{
			name:   "order follows event order",
			colors: []string{"green", "red"},
			want:   []ColorIndex{Green, Red},
		},
		{
			name:   "capped at four",
			colors: []string{"red", "yellow", "green", "blue", "red", "yellow"},
			want:   []ColorIndex{Red, Yellow, Green, Blue},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := dayDotColors(mk(tc.colors...))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}
