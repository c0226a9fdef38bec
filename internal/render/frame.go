package render

import (
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"time"

	"github.com/disintegration/imaging"

	appLog "inkcal/internal/log"
	"inkcal/internal/model"
)

// ViewMode selects one of the calendar layouts.
type ViewMode string

const (
	ViewTwoWeek ViewMode = "two_week"
	ViewMonth   ViewMode = "month"
	ViewWeek    ViewMode = "week"
	ViewAgenda  ViewMode = "agenda"
	ViewFourDay ViewMode = "four_day"
)

// CalendarRef describes one configured calendar for color assignment and
// legend display. Declaration order is the color cycling tie-break.
type CalendarRef struct {
	ID    string
	Name  string
	Color string // explicit color key, or "" to cycle
}

// ViewOptions are the per-view layout knobs.
type ViewOptions struct {
	ShowTime bool
	// MaxEventsPerDay caps lines per cell; 0 derives the cap from the
	// cell height and minimum line height.
	MaxEventsPerDay int
}

// AgendaOptions configure the chronological list view.
type AgendaOptions struct {
	DaysAhead     int
	ShowAllEvents bool
	// MaxEventsPerDay applies only when ShowAllEvents is false.
	MaxEventsPerDay int
}

// ViewConfig is the validated, immutable configuration for one render.
type ViewConfig struct {
	Mode ViewMode

	// Width and Height are the output (post-rotation) canvas size.
	Width  int
	Height int
	// Rotation is applied clockwise as the final step: 0, 90, 180, 270.
	Rotation int

	WeekStart time.Weekday

	TwoWeek ViewOptions
	Week    ViewOptions
	FourDay ViewOptions
	Month   ViewOptions
	Agenda  AgendaOptions

	Calendars []CalendarRef
}

// Inputs carries one run's worth of data into a render. All fields are
// read-only within the core.
type Inputs struct {
	Events  []model.CalendarEvent
	Weather model.WeatherSnapshot
	// Now is the reference date: it decides the visible date window and
	// the "today" cell emphasis.
	Now time.Time
	// Status is the footer line (last-updated stamp, battery), supplied
	// by the caller, never computed here.
	Status string
}

const (
	headerHeight = 50
	footerHeight = 26
)

// Render composes the selected view into a color-indexed raster. It either
// succeeds fully or fails with an error and no image; single bad events
// degrade their own cell only, never the frame.
func Render(cfg ViewConfig, fonts *FontCache, in Inputs) (*image.Paletted, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	prio := make(map[string]int, len(cfg.Calendars))
	for i, cal := range cfg.Calendars {
		prio[cal.ID] = i
	}
	evs, err := prepareEvents(in.Events, prio)
	if err != nil {
		return nil, err
	}

	// Compose at the pre-rotation logical size so the rotated output is
	// exactly Width x Height.
	w, h := cfg.Width, cfg.Height
	if cfg.Rotation == 90 || cfg.Rotation == 270 {
		w, h = h, w
	}

	c := newCanvas(w, h, fonts)
	badgeCtx := badgeGrid
	if cfg.Mode == ViewAgenda {
		badgeCtx = badgeAgenda
	}
	drawHeader(c, cfg, in, badgeCtx)

	body := region{x: 0, y: headerHeight, w: w, h: h - headerHeight - footerHeight}
	switch cfg.Mode {
	case ViewTwoWeek:
		composeTwoWeek(c, body, cfg, evs, in.Now)
	case ViewMonth:
		composeMonth(c, body, cfg, evs, in.Now)
	case ViewWeek:
		composeWeek(c, body, cfg, evs, in.Now)
	case ViewFourDay:
		composeFourDay(c, body, cfg, evs, in.Now)
	case ViewAgenda:
		composeAgenda(c, body, cfg, evs, in.Now)
	}

	drawFooter(c, w, h, in.Status)

	appLog.Debug("view composed", "mode", string(cfg.Mode), "events", len(evs))
	return quantize(Rotate(c.dc.Image(), cfg.Rotation)), nil
}

func validate(cfg ViewConfig) error {
	switch cfg.Mode {
	case ViewTwoWeek, ViewMonth, ViewWeek, ViewAgenda, ViewFourDay:
	default:
		return configErr("view_mode", string(cfg.Mode), "unrecognized view mode")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return configErr("display", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), "canvas size must be positive")
	}
	switch cfg.Rotation {
	case 0, 90, 180, 270:
	default:
		return configErr("rotation", strconv.Itoa(cfg.Rotation), "must be 0, 90, 180 or 270")
	}
	return nil
}

// drawHeader paints the header band: date label on the left, weather badge
// on the right. The agenda view keeps a light band so the condition color
// table stays legible; grid views use a dark blue band with white content.
func drawHeader(c *canvas, cfg ViewConfig, in Inputs, ctx badgeContext) {
	w := float64(c.dc.Width())

	band := Blue
	label := White
	if ctx == badgeAgenda {
		band = White
		label = Black
	}
	c.box(0, 0, w, headerHeight, band.NRGBA(), nil, 0)
	c.hline(0, w, headerHeight, Black, 2)

	c.setFont(c.fonts.Select(RoleHeader, headerHeight-18, 1))
	c.setColor(label)
	c.text(in.Now.Format("Monday, January 2, 2006"), 16, 11, alignLeft, w*0.6)

	drawWeatherBadge(c, in.Weather, w-16, 0, headerHeight, ctx)
}

// drawFooter paints the caller-supplied status line at the bottom edge.
func drawFooter(c *canvas, w, h int, status string) {
	y := float64(h - footerHeight)
	c.hline(0, float64(w), y, Black, 1)
	if status == "" {
		return
	}
	c.setFont(c.fonts.Select(RoleLabel, footerHeight-8, 1))
	c.setColor(Black)
	c.text(status, 16, y+6, alignLeft, float64(w)-32)
}

// Rotate applies a clockwise rotation of 0, 90, 180 or 270 degrees as a
// pure geometric transform; no re-layout happens. Rotation 0 is the
// identity (modulo pixel format cloning).
func Rotate(img image.Image, deg int) *image.NRGBA {
	switch deg {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return imaging.Clone(img)
	}
}

// quantize maps the composed canvas onto the six-entry panel palette.
// Drawing uses exact palette RGB values, so only anti-aliased edges snap
// to a neighbor.
func quantize(src image.Image) *image.Paletted {
	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), Palette)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// ErrorFrame renders a minimal diagnostic frame so a fatal pipeline
// failure is visible on the panel instead of leaving a stale image.
func ErrorFrame(cfg ViewConfig, fonts *FontCache, msg string, now time.Time) *image.Paletted {
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = 800, 480
	}
	c := newCanvas(w, h, fonts)
	c.box(0, 0, float64(w), 48, Red.NRGBA(), nil, 0)
	c.setFont(FontHandle{Face: fonts.face(true, 22), Size: 22})
	c.setColor(White)
	c.text("RENDER ERROR", 16, 10, alignLeft, float64(w)-32)
	c.setFont(FontHandle{Face: fonts.face(false, 14), Size: 14})
	c.setColor(Black)
	c.text(msg, 16, 70, alignLeft, float64(w)-32)
	c.text(now.Format("2006-01-02 15:04:05"), 16, 96, alignLeft, float64(w)-32)
	return quantize(c.dc.Image())
}
