// Package weather fetches the current weather state from a Home Assistant
// instance. Failures never cross this boundary as errors: every problem
// becomes a snapshot with Valid == false, which the render core handles
// by omitting the badge.
package weather

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	appLog "inkcal/internal/log"
	"inkcal/internal/model"
)

// Client reads one weather entity over the Home Assistant REST API.
type Client struct {
	baseURL string
	token   string
	entity  string
	unit    string
	http    *http.Client
}

// New builds a Client. An empty baseURL or entity yields a client whose
// Snapshot is always invalid, so an unconfigured weather section simply
// renders no badge.
func New(baseURL, token, entity, unit string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		entity:  entity,
		unit:    unit,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// stateResponse is the subset of /api/states/<entity> we consume.
type stateResponse struct {
	State      string `json:"state"`
	Attributes struct {
		Temperature     float64 `json:"temperature"`
		TemperatureUnit string  `json:"temperature_unit"`
	} `json:"attributes"`
}

// Snapshot fetches the entity state. It never returns an error.
func (c *Client) Snapshot(ctx context.Context) model.WeatherSnapshot {
	invalid := model.WeatherSnapshot{Valid: false}
	if c.baseURL == "" || c.entity == "" {
		return invalid
	}

	url := c.baseURL + "/api/states/" + c.entity
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		appLog.Warn("weather request build failed", "err", err)
		return invalid
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		appLog.Warn("weather fetch failed", "entity", c.entity, "err", err)
		return invalid
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		appLog.Warn("weather fetch bad status", "entity", c.entity, "status", resp.Status)
		return invalid
	}

	var state stateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&state); err != nil {
		appLog.Warn("weather decode failed", "entity", c.entity, "err", err)
		return invalid
	}
	if state.State == "" || state.State == "unknown" || state.State == "unavailable" {
		appLog.Warn("weather entity unavailable", "entity", c.entity, "state", state.State)
		return invalid
	}

	unit := c.unit
	if u := normalizeUnit(state.Attributes.TemperatureUnit); u != "" {
		unit = u
	}

	return model.WeatherSnapshot{
		Condition:   state.State,
		Temperature: state.Attributes.Temperature,
		Unit:        unit,
		Valid:       true,
	}
}

// normalizeUnit reduces HA unit strings ("°F", "F") to a bare suffix.
func normalizeUnit(u string) string {
	u = strings.TrimPrefix(strings.TrimSpace(u), "°")
	switch strings.ToUpper(u) {
	case "F":
		return "F"
	case "C":
		return "C"
	}
	return ""
}
