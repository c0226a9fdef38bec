package render

import (
	"bytes"
	"image"
	"testing"
	"time"

	"inkcal/internal/model"
)

func testViewConfig(mode ViewMode) ViewConfig {
	return ViewConfig{
		Mode:      mode,
		Width:     800,
		Height:    480,
		WeekStart: time.Monday,
		TwoWeek:   ViewOptions{ShowTime: true, MaxEventsPerDay: 3},
		Week:      ViewOptions{ShowTime: true, MaxEventsPerDay: 5},
		FourDay:   ViewOptions{ShowTime: true, MaxEventsPerDay: 8},
		Month:     ViewOptions{MaxEventsPerDay: 4},
		Agenda:    AgendaOptions{DaysAhead: 14, ShowAllEvents: true},
		Calendars: []CalendarRef{
			{ID: "family", Name: "Family", Color: "red"},
			{ID: "work", Name: "Work", Color: "blue"},
		},
	}
}

func testInputs(now time.Time) Inputs {
	return Inputs{
		Events: []model.CalendarEvent{
			mkEvent("family", "Dentist", "red", now.Add(3*time.Hour), time.Hour, false),
			mkEvent("work", "Planning", "blue", now.Add(26*time.Hour), 2*time.Hour, false),
			mkEvent("family", "Trip", "red", now.AddDate(0, 0, 2), 72*time.Hour, true),
		},
		Weather: model.WeatherSnapshot{Condition: "sunny", Temperature: 72, Unit: "F", Valid: true},
		Now:     now,
		Status:  "Updated Mar 10 9:00 AM  |  Battery 87%",
	}
}

func TestRenderAllModes(t *testing.T) {
	fonts := NewFontCache()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for _, mode := range []ViewMode{ViewTwoWeek, ViewMonth, ViewWeek, ViewAgenda, ViewFourDay} {
		t.Run(string(mode), func(t *testing.T) {
			img, err := Render(testViewConfig(mode), fonts, testInputs(now))
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got := img.Bounds().Size(); got != image.Pt(800, 480) {
				t.Errorf("frame size = %v, want 800x480", got)
			}
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	fonts := NewFontCache()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cfg := testViewConfig(ViewTwoWeek)

	a, err := Render(cfg, fonts, testInputs(now))
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := Render(cfg, fonts, testInputs(now))
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("identical inputs produced different rasters")
	}
}

func TestRenderRotatedDimensions(t *testing.T) {
	fonts := NewFontCache()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for _, rot := range []int{0, 90, 180, 270} {
		cfg := testViewConfig(ViewWeek)
		cfg.Rotation = rot
		img, err := Render(cfg, fonts, testInputs(now))
		if err != nil {
			t.Fatalf("rotation %d: %v", rot, err)
		}
		// Width and Height describe the final output; composition happens at
		// the pre-rotation size internally.
		if got := img.Bounds().Size(); got != image.Pt(cfg.Width, cfg.Height) {
			t.Errorf("rotation %d: frame size = %v, want %dx%d", rot, got, cfg.Width, cfg.Height)
		}
	}
}

func TestRenderInvalidWeatherOmitsBadge(t *testing.T) {
	fonts := NewFontCache()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cfg := testViewConfig(ViewMonth)

	in := testInputs(now)
	in.Weather = model.WeatherSnapshot{Condition: "sunny", Temperature: 72, Unit: "F", Valid: false}
	withInvalid, err := Render(cfg, fonts, in)
	if err != nil {
		t.Fatalf("render with invalid weather: %v", err)
	}

	in.Weather = model.WeatherSnapshot{}
	without, err := Render(cfg, fonts, in)
	if err != nil {
		t.Fatalf("render without weather: %v", err)
	}

	// An invalid snapshot draws nothing, so the frame must be identical to
	// one rendered with no weather at all.
	if !bytes.Equal(withInvalid.Pix, without.Pix) {
		t.Error("invalid weather snapshot left marks on the frame")
	}
}

func TestRenderRejectsBadConfig(t *testing.T) {
	fonts := NewFontCache()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*ViewConfig)
	}{
		{name: "unknown mode", mutate: func(c *ViewConfig) { c.Mode = "spiral" }},
		{name: "bad rotation", mutate: func(c *ViewConfig) { c.Rotation = 45 }},
		{name: "zero width", mutate: func(c *ViewConfig) { c.Width = 0 }},
		{name: "negative height", mutate: func(c *ViewConfig) { c.Height = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testViewConfig(ViewTwoWeek)
			tc.mutate(&cfg)
			if _, err := Render(cfg, fonts, testInputs(now)); err == nil {
				t.Error("want config error")
			}
		})
	}
}

func TestRotate(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	mark := [4]uint8{0xFF, 0x00, 0x00, 0xFF}
	copy(src.Pix[src.PixOffset(0, 0):], mark[:])

	t.Run("identity", func(t *testing.T) {
		out := Rotate(src, 0)
		if got := out.Bounds().Size(); got != image.Pt(4, 2) {
			t.Fatalf("size = %v, want 4x2", got)
		}
		if !bytes.Equal(out.Pix, src.Pix) {
			t.Error("rotation 0 altered pixels")
		}
	})

	t.Run("clockwise 90", func(t *testing.T) {
		out := Rotate(src, 90)
		if got := out.Bounds().Size(); got != image.Pt(2, 4) {
			t.Fatalf("size = %v, want 2x4", got)
		}
		// Clockwise: (x, y) in a WxH image lands at (H-1-y, x).
		if got := out.NRGBAAt(1, 0); got.R != 0xFF || got.A != 0xFF {
			t.Errorf("marked pixel at (1,0) = %v, want red", got)
		}
	})

	t.Run("180", func(t *testing.T) {
		out := Rotate(src, 180)
		if got := out.Bounds().Size(); got != image.Pt(4, 2) {
			t.Fatalf("size = %v, want 4x2", got)
		}
		if got := out.NRGBAAt(3, 1); got.R != 0xFF {
			t.Errorf("marked pixel at (3,1) = %v, want red", got)
		}
	})

	t.Run("counterclockwise via 270", func(t *testing.T) {
		out := Rotate(src, 270)
		if got := out.Bounds().Size(); got != image.Pt(2, 4) {
			t.Fatalf("size = %v, want 2x4", got)
		}
		if got := out.NRGBAAt(0, 3); got.R != 0xFF {
			t.Errorf("marked pixel at (0,3) = %v, want red", got)
		}
	})

	t.Run("round trip restores buffer", func(t *testing.T) {
		out := Rotate(Rotate(src, 90), 270)
		if !bytes.Equal(out.Pix, src.Pix) {
			t.Error("90 then 270 did not restore the original pixels")
		}
		out = Rotate(Rotate(src, 180), 180)
		if !bytes.Equal(out.Pix, src.Pix) {
			t.Error("180 twice did not restore the original pixels")
		}
	})
}

func TestErrorFrame(t *testing.T) {
	fonts := NewFontCache()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	img := ErrorFrame(testViewConfig(ViewTwoWeek), fonts, "fetch failed: connection refused", now)
	if img == nil {
		t.Fatal("ErrorFrame returned nil")
	}
	if got := img.Bounds().Size(); got != image.Pt(800, 480) {
		t.Errorf("frame size = %v, want 800x480", got)
	}

	// The banner row must contain red pixels.
	foundRed := false
	for x := 0; x < 800 && !foundRed; x++ {
		if img.ColorIndexAt(x, 24) == uint8(Red) {
			foundRed = true
		}
	}
	if !foundRed {
		t.Error("no red banner in error frame")
	}
}
