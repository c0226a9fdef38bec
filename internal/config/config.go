package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"inkcal/internal/render"
)

// CalendarConfig describes a single ICS subscription source.
type CalendarConfig struct {
	// ID is an internal identifier used for de-dup, color assignment and
	// logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown in agenda entries and the legend.
	Name string `yaml:"name" json:"name"`
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// Color is an explicit palette color key (red, yellow, green, blue).
	// Empty means cycle through the assignable set in declaration order.
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// DisplayConfig describes the output canvas and panel handling.
type DisplayConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	// Rotation is applied clockwise to the finished frame: 0, 90, 180, 270.
	Rotation int `yaml:"rotation" json:"rotation"`
	// Mock writes a PNG preview instead of driving panel hardware.
	Mock        bool   `yaml:"mock" json:"mock"`
	PreviewPath string `yaml:"preview_path" json:"preview_path"`
}

// ViewOptionsConfig holds per-view layout knobs.
type ViewOptionsConfig struct {
	ShowTime bool `yaml:"show_time" json:"show_time"`
	// MaxEventsPerDay of 0 means derive dynamically from cell height.
	MaxEventsPerDay int `yaml:"max_events_per_day" json:"max_events_per_day"`
}

// AgendaConfig holds the agenda view knobs.
type AgendaConfig struct {
	DaysAhead       int  `yaml:"days_ahead" json:"days_ahead"`
	ShowAllEvents   bool `yaml:"show_all_events" json:"show_all_events"`
	MaxEventsPerDay int  `yaml:"max_events_per_day" json:"max_events_per_day"`
}

// ViewsConfig groups the per-view options.
type ViewsConfig struct {
	TwoWeek ViewOptionsConfig `yaml:"two_week" json:"two_week"`
	Week    ViewOptionsConfig `yaml:"week" json:"week"`
	FourDay ViewOptionsConfig `yaml:"four_day" json:"four_day"`
	Month   ViewOptionsConfig `yaml:"month" json:"month"`
	Agenda  AgendaConfig      `yaml:"agenda" json:"agenda"`
}

// WeatherConfig points at the Home Assistant weather entity.
type WeatherConfig struct {
	URL    string `yaml:"url" json:"url"`
	Token  string `yaml:"token" json:"token"`
	Entity string `yaml:"entity" json:"entity"`
	// Unit is the display unit suffix ("F" or "C").
	Unit string `yaml:"unit" json:"unit"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API and preview.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA display timezone (e.g. "America/New_York").
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart controls the first day of the week in calendar views:
	// "monday" (default) or "sunday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// RefreshCron is a cron-style schedule (e.g. "*/15 * * * *") for
	// periodic refresh.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// View is the active view mode: two_week, month, week, agenda, four_day.
	View string `yaml:"view" json:"view"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	Display   DisplayConfig    `yaml:"display" json:"display"`
	Views     ViewsConfig      `yaml:"views" json:"views"`
	Calendars []CalendarConfig `yaml:"calendars" json:"calendars"`
	Weather   WeatherConfig    `yaml:"weather" json:"weather"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		Timezone:    "America/New_York",
		WeekStart:   "monday",
		RefreshCron: "*/15 * * * *",
		View:        "two_week",
		LogLevel:    "info",
		Display: DisplayConfig{
			Width:       800,
			Height:      480,
			Rotation:    0,
			Mock:        false,
			PreviewPath: "./preview.png",
		},
		Views: ViewsConfig{
			TwoWeek: ViewOptionsConfig{ShowTime: true, MaxEventsPerDay: 3},
			Week:    ViewOptionsConfig{ShowTime: true, MaxEventsPerDay: 5},
			FourDay: ViewOptionsConfig{ShowTime: true, MaxEventsPerDay: 8},
			Month:   ViewOptionsConfig{MaxEventsPerDay: 4},
			Agenda:  AgendaConfig{DaysAhead: 14, ShowAllEvents: true},
		},
		Calendars: []CalendarConfig{},
		Weather:   WeatherConfig{Unit: "F"},
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = "monday"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.View == "" {
		c.View = def.View
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Display.Width <= 0 {
		c.Display.Width = def.Display.Width
	}
	if c.Display.Height <= 0 {
		c.Display.Height = def.Display.Height
	}
	if c.Display.PreviewPath == "" {
		c.Display.PreviewPath = def.Display.PreviewPath
	}
	if c.Views.Agenda.DaysAhead <= 0 {
		c.Views.Agenda.DaysAhead = def.Views.Agenda.DaysAhead
	}
	if c.Weather.Unit == "" {
		c.Weather.Unit = def.Weather.Unit
	}
	if c.Calendars == nil {
		c.Calendars = []CalendarConfig{}
	}
}

// Validate rejects unknown or unusable values eagerly, before any render
// is attempted. Recognized options and defaults are enumerated here and
// in DefaultConfig; anything else is a configuration error.
func (c *Config) Validate() error {
	switch c.View {
	case "two_week", "month", "week", "agenda", "four_day":
	default:
		return fmt.Errorf("config: unrecognized view %q", c.View)
	}
	switch c.Display.Rotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("config: unsupported rotation %d", c.Display.Rotation)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: bad timezone %q: %w", c.Timezone, err)
	}
	seen := make(map[string]bool, len(c.Calendars))
	for _, cal := range c.Calendars {
		if cal.ID == "" {
			return errors.New("config: calendar with empty id")
		}
		if seen[cal.ID] {
			return fmt.Errorf("config: duplicate calendar id %q", cal.ID)
		}
		seen[cal.ID] = true
		if cal.Color != "" {
			if _, err := render.ResolveKey(cal.Color); err != nil {
				return fmt.Errorf("config: calendar %q: %w", cal.ID, err)
			}
		}
	}
	return nil
}

// Location resolves the display timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// RenderConfig builds the validated, immutable view configuration the
// render core consumes.
func (c *Config) RenderConfig() render.ViewConfig {
	weekStart := time.Monday
	if c.WeekStart == "sunday" {
		weekStart = time.Sunday
	}

	cals := make([]render.CalendarRef, 0, len(c.Calendars))
	for _, cal := range c.Calendars {
		cals = append(cals, render.CalendarRef{ID: cal.ID, Name: cal.Name, Color: cal.Color})
	}

	return render.ViewConfig{
		Mode:      render.ViewMode(c.View),
		Width:     c.Display.Width,
		Height:    c.Display.Height,
		Rotation:  c.Display.Rotation,
		WeekStart: weekStart,
		TwoWeek:   render.ViewOptions(c.Views.TwoWeek),
		Week:      render.ViewOptions(c.Views.Week),
		FourDay:   render.ViewOptions(c.Views.FourDay),
		Month:     render.ViewOptions(c.Views.Month),
		Agenda: render.AgendaOptions{
			DaysAhead:       c.Views.Agenda.DaysAhead,
			ShowAllEvents:   c.Views.Agenda.ShowAllEvents,
			MaxEventsPerDay: c.Views.Agenda.MaxEventsPerDay,
		},
		Calendars: cals,
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create parent directory if needed, write
//     a default config with 0600 perms, and return the default config.
//   - If the file exists: read YAML, unmarshal, normalize, validate.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path, atomically
// via a temp file + rename, with final 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".inkcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
