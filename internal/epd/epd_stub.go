//go:build !linux || !arm

package epd

import "errors"

// NewPanel is only available on linux/arm (Raspberry Pi). Other hosts
// use the mock display.
func NewPanel() (Display, error) {
	return nil, errors.New("epd: panel hardware not supported on this platform, use mock mode")
}
