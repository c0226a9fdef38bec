package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"inkcal/internal/battery"
	"inkcal/internal/config"
	"inkcal/internal/epd"
	"inkcal/internal/ics"
	appLog "inkcal/internal/log"
	"inkcal/internal/model"
	"inkcal/internal/render"
	"inkcal/internal/weather"
	"inkcal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	view       string
	out        string
	once       bool
	renderOnly bool
}

// app bundles the long-lived collaborators of the refresh pipeline.
type app struct {
	cfg     *config.Config
	loc     *time.Location
	fonts   *render.FontCache
	fetcher *ics.Fetcher
	weather *weather.Client
	battery battery.Reader
	display epd.Display
	server  *web.Server

	renderOnly bool
	outPath    string
}

func main() {
	flags := parseFlags()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		cfg.Listen = flags.listen
	}
	if flags.view != "" {
		cfg.View = flags.view
	}
	if err := cfg.Validate(); err != nil {
		appLog.Error("invalid config", err)
		os.Exit(1)
	}

	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
	appLog.Info("inkcal starting",
		"view", cfg.View,
		"display", fmt.Sprintf("%dx%d", cfg.Display.Width, cfg.Display.Height),
		"rotation", cfg.Display.Rotation,
		"calendars", len(cfg.Calendars),
		"mock", cfg.Display.Mock,
		"once", flags.once,
	)

	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("failed to resolve timezone", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	a := &app{
		cfg:        cfg,
		loc:        loc,
		fonts:      render.NewFontCache(),
		fetcher:    ics.NewFetcher(cacheDir()),
		renderOnly: flags.renderOnly,
		outPath:    flags.out,
	}

	if cfg.Weather.URL != "" && cfg.Weather.Entity != "" {
		a.weather = weather.New(cfg.Weather.URL, cfg.Weather.Token, cfg.Weather.Entity, cfg.Weather.Unit)
	}

	if cfg.Display.Mock {
		a.battery = battery.NewMockReader()
	} else {
		a.battery = battery.NewI2CReader("", battery.DefaultAddr)
	}

	if !flags.renderOnly {
		a.display, err = openDisplay(cfg)
		if err != nil {
			appLog.Error("failed to open display", err)
			os.Exit(1)
		}
		defer a.display.Close()
	}

	a.server = web.NewServer(cfg, a.battery)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.once {
		if err := a.runCycle(ctx); err != nil {
			appLog.Error("refresh cycle failed", err)
			os.Exit(1)
		}
		a.sleepDisplay(ctx)
		appLog.Info("inkcal exiting")
		return
	}

	go func() {
		if err := a.server.Serve(ctx); err != nil {
			appLog.Error("HTTP server failed", err)
			cancel()
		}
	}()

	a.runLoop(ctx)
	a.sleepDisplay(context.Background())
	appLog.Info("inkcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/inkcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.view, "view", "", "View mode override: two_week, month, week, agenda, four_day")
	flag.StringVar(&cfg.out, "out", "", "Write the rendered frame PNG to this path (in addition to the preview)")
	flag.BoolVar(&cfg.once, "once", false, "Run one fetch+render(+display) cycle and exit")
	flag.BoolVar(&cfg.renderOnly, "render-only", false, "Render only; do not touch display hardware")

	flag.Parse()

	return cfg
}

func cacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "inkcal", "ics")
}

func openDisplay(cfg *config.Config) (epd.Display, error) {
	if cfg.Display.Mock {
		return epd.NewMock(cfg.Display.PreviewPath), nil
	}
	return epd.NewPanel()
}

// runLoop drives the cron schedule and the webhook refresh channel. An
// initial refresh runs immediately so the panel is never stale on boot.
func (a *app) runLoop(ctx context.Context) {
	if err := a.runCycle(ctx); err != nil {
		appLog.Error("initial refresh failed", err)
	}

	tick := make(chan struct{}, 1)
	c := cron.New()
	if _, err := c.AddFunc(a.cfg.RefreshCron, func() {
		select {
		case tick <- struct{}{}:
		default:
		}
	}); err != nil {
		appLog.Error("bad refresh schedule", err, "refresh", a.cfg.RefreshCron)
		return
	}
	c.Start()
	defer c.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if err := a.runCycle(ctx); err != nil {
				appLog.Error("scheduled refresh failed", err)
			}
		case <-a.server.Refresh():
			if err := a.runCycle(ctx); err != nil {
				appLog.Error("webhook refresh failed", err)
			}
		}
	}
}

// runCycle fetches all inputs, composes the frame and pushes it to the
// preview and the display. A render failure produces a diagnostic frame
// instead of leaving the previous image on the panel.
func (a *app) runCycle(ctx context.Context) error {
	started := time.Now()
	now := time.Now().In(a.loc)

	frame, err := a.composeFrame(ctx, now)
	if err != nil {
		appLog.Error("frame composition failed", err)
		frame = render.ErrorFrame(a.cfg.RenderConfig(), a.fonts, err.Error(), now)
	}

	var buf bytes.Buffer
	if encErr := png.Encode(&buf, frame); encErr != nil {
		return fmt.Errorf("encode preview: %w", encErr)
	}
	a.server.SetPreview(buf.Bytes())
	if a.outPath != "" {
		if wErr := os.WriteFile(a.outPath, buf.Bytes(), 0o644); wErr != nil {
			appLog.Warn("failed to write output PNG", "path", a.outPath, "err", wErr)
		}
	}

	if a.display != nil {
		if err := a.display.Init(ctx); err != nil {
			return fmt.Errorf("display init: %w", err)
		}
		if err := a.display.Show(ctx, frame); err != nil {
			return fmt.Errorf("display show: %w", err)
		}
	}

	appLog.Info("refresh cycle complete", "elapsed", time.Since(started).Round(time.Millisecond).String())
	return err
}

func (a *app) composeFrame(ctx context.Context, now time.Time) (*image.Paletted, error) {
	// The widest view (month) needs adjacent-month days; fetch a generous
	// window around now so every view has its events.
	from := now.AddDate(0, -1, 0)
	to := now.AddDate(0, 0, 45)

	sources := make([]ics.Source, 0, len(a.cfg.Calendars))
	for _, cal := range a.cfg.Calendars {
		sources = append(sources, ics.Source{ID: cal.ID, Name: cal.Name, URL: cal.URL})
	}

	events, err := ics.LoadEvents(ctx, a.fetcher, sources, a.loc, from, to)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	rc := a.cfg.RenderConfig()
	colorKeys, err := render.AssignColorKeys(rc.Calendars)
	if err != nil {
		return nil, fmt.Errorf("assign colors: %w", err)
	}
	for i := range events {
		events[i].Color = colorKeys[events[i].CalendarID]
	}

	var snap model.WeatherSnapshot
	if a.weather != nil {
		snap = a.weather.Snapshot(ctx)
	}

	status := "Updated " + now.Format("Jan 2 3:04 PM")
	if bat, batErr := a.battery.Read(ctx); batErr == nil {
		status += fmt.Sprintf("  |  Battery %d%%", bat.Percent)
	} else {
		appLog.Debug("battery read failed", "err", batErr)
	}

	img, err := render.Render(rc, a.fonts, render.Inputs{
		Events:  events,
		Weather: snap,
		Now:     now,
		Status:  status,
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (a *app) sleepDisplay(ctx context.Context) {
	if a.display == nil {
		return
	}
	if err := a.display.Sleep(ctx); err != nil {
		appLog.Warn("display sleep failed", "err", err)
	}
}
