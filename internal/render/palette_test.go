package render

import (
	"errors"
	"testing"
)

func TestResolveKey(t *testing.T) {
	valid := map[string]ColorIndex{
		"red":    Red,
		"yellow": Yellow,
		"green":  Green,
		"blue":   Blue,
	}
	for key, want := range valid {
		got, err := ResolveKey(key)
		if err != nil {
			t.Errorf("ResolveKey(%q): %v", key, err)
		}
		if got != want {
			t.Errorf("ResolveKey(%q) = %v, want %v", key, got, want)
		}
	}

	for _, key := range []string{"black", "white", "purple", "RED", ""} {
		_, err := ResolveKey(key)
		if err == nil {
			t.Errorf("ResolveKey(%q): want error", key)
			continue
		}
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Errorf("ResolveKey(%q) err = %T, want *ConfigError", key, err)
		}
	}
}

func TestAssignColorKeysCycling(t *testing.T) {
	cals := []CalendarRef{
		{ID: "one"}, {ID: "two"}, {ID: "three"}, {ID: "four"}, {ID: "five"}, {ID: "six"},
	}
	keys, err := AssignColorKeys(cals)
	if err != nil {
		t.Fatalf("AssignColorKeys: %v", err)
	}
	want := map[string]string{
		"one": "red", "two": "yellow", "three": "green", "four": "blue",
		"five": "red", "six": "yellow",
	}
	for id, color := range want {
		if keys[id] != color {
			t.Errorf("calendar %q = %q, want %q", id, keys[id], color)
		}
	}
}

func TestAssignColorKeysExplicitWins(t *testing.T) {
	cals := []CalendarRef{
		{ID: "a", Color: "blue"},
		{ID: "b"},
		{ID: "c", Color: "blue"},
	}
	keys, err := AssignColorKeys(cals)
	if err != nil {
		t.Fatalf("AssignColorKeys: %v", err)
	}
	if keys["a"] != "blue" || keys["c"] != "blue" {
		t.Errorf("explicit colors not preserved: %v", keys)
	}
	// Cycling position is the declaration index, not the count of
	// implicit calendars seen so far.
	if keys["b"] != "yellow" {
		t.Errorf("calendar b = %q, want yellow (index 1)", keys["b"])
	}
}

func TestAssignColorKeysRejectsReserved(t *testing.T) {
	_, err := AssignColorKeys([]CalendarRef{{ID: "a", Color: "white"}})
	if err == nil {
		t.Fatal("want error for reserved color white")
	}
}

func TestPanelCodes(t *testing.T) {
	want := map[ColorIndex]byte{
		Black:  0x0,
		White:  0x1,
		Yellow: 0x2,
		Red:    0x3,
		Blue:   0x5,
		Green:  0x6,
	}
	for ci, code := range want {
		if got := ci.PanelCode(); got != code {
			t.Errorf("%v.PanelCode() = %#x, want %#x", ci, got, code)
		}
	}
}

func TestPaletteMatchesColorIndex(t *testing.T) {
	if len(Palette) != 6 {
		t.Fatalf("palette has %d entries, want 6", len(Palette))
	}
	for ci := Black; ci <= Green; ci++ {
		if Palette[ci] != ci.NRGBA() {
			t.Errorf("Palette[%d] = %v, want %v", ci, Palette[ci], ci.NRGBA())
		}
	}
}
