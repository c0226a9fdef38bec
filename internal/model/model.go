package model

import "time"

// CalendarEvent is a single concrete event instance after recurrence
// expansion and timezone normalization. The pipeline constructs the full
// list once per run; the render core only reads it.
type CalendarEvent struct {
	// CalendarID identifies the source calendar (config calendar ID).
	CalendarID string
	// CalendarName is the human-friendly label shown in agenda entries
	// and the legend.
	CalendarName string

	Title    string
	Location string

	// Start / End are in the configured display timezone. End >= Start;
	// the render core clamps violations instead of failing the frame.
	Start time.Time
	End   time.Time

	AllDay bool

	// Color is the assignable palette color key of the source calendar
	// ("red", "yellow", "green" or "blue"), resolved from config order
	// before the event reaches the render core.
	Color string
}

// WeatherSnapshot is the weather state for the header badge. One per run.
// Valid == false means the weather collaborator failed; the badge is
// omitted entirely and the rest of the frame renders normally.
type WeatherSnapshot struct {
	// Condition is a Home Assistant style condition code
	// (sunny, cloudy, rainy, snowy, lightning, fog, ...).
	Condition string

	Temperature float64
	// Unit is the display unit suffix, e.g. "F" or "C".
	Unit string

	Valid bool
}

// BatteryStatus is reported by the battery reader for the footer status
// line and the /api/battery endpoint.
type BatteryStatus struct {
	// Percent is the battery level in 0-100%.
	Percent int `json:"percent"`
	// VoltageMv is the battery voltage in millivolts, if known.
	VoltageMv int `json:"voltage_mv"`
}
