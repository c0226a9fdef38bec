// Package epd drives the Waveshare 7.3" (E) six-color e-paper panel over
// SPI, with a mock implementation for development hosts.
package epd

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"

	appLog "inkcal/internal/log"
)

// Display abstracts the output device so the pipeline can target real
// hardware or a PNG file sink interchangeably. The scheduler serializes
// invocations; implementations are not safe for concurrent Show calls.
type Display interface {
	Init(ctx context.Context) error
	Show(ctx context.Context, img *image.Paletted) error
	// Sleep puts the panel into deep sleep between refreshes; e-paper
	// retains its image without power.
	Sleep(ctx context.Context) error
	Close() error
}

// MockDisplay encodes each frame as a PNG file. Used in mock mode and on
// hosts without panel hardware.
type MockDisplay struct {
	Path string
}

func NewMock(path string) *MockDisplay {
	if path == "" {
		path = "./preview.png"
	}
	return &MockDisplay{Path: path}
}

func (m *MockDisplay) Init(context.Context) error { return nil }

func (m *MockDisplay) Show(_ context.Context, img *image.Paletted) error {
	if err := os.MkdirAll(filepath.Dir(m.Path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(m.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return err
	}
	appLog.Info("mock display frame written", "path", m.Path)
	return nil
}

func (m *MockDisplay) Sleep(context.Context) error { return nil }
func (m *MockDisplay) Close() error                { return nil }
