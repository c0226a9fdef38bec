//go:build linux && arm

package epd

import (
	"context"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"inkcal/internal/convert"
	appLog "inkcal/internal/log"
)

// BCM pin numbers of the Waveshare e-paper HAT. Chip select is handled by
// the SPI port itself.
const (
	bcmRST  = 17
	bcmDC   = 25
	bcmBusy = 24
	bcmPWR  = 18
)

// Panel is the SPI-backed Display for the 7.3" (E) controller.
type Panel struct {
	spi  spi.Conn
	port spi.PortCloser

	rst  gpio.PinOut
	dc   gpio.PinOut
	pwr  gpio.PinOut
	busy gpio.PinIn

	asleep bool
}

// NewPanel initializes periph.io, opens the default SPI port and
// configures the HAT control pins. The panel itself is initialized
// lazily by Init.
func NewPanel() (Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("epd: periph host init: %w", err)
	}

	port, err := spireg.Open("")
	if err != nil {
		return nil, fmt.Errorf("epd: open SPI port: %w", err)
	}
	conn, err := port.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("epd: connect SPI: %w", err)
	}

	pinOut := func(num int) (gpio.PinOut, error) {
		p := gpioreg.ByName(fmt.Sprintf("GPIO%d", num))
		if p == nil {
			return nil, fmt.Errorf("epd: GPIO%d not found", num)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("epd: GPIO%d out: %w", num, err)
		}
		return p, nil
	}

	rst, err := pinOut(bcmRST)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	dc, err := pinOut(bcmDC)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	pwr, err := pinOut(bcmPWR)
	if err != nil {
		_ = port.Close()
		return nil, err
	}

	busy := gpioreg.ByName(fmt.Sprintf("GPIO%d", bcmBusy))
	if busy == nil {
		_ = port.Close()
		return nil, fmt.Errorf("epd: GPIO%d not found", bcmBusy)
	}
	if err := busy.In(gpio.PullUp, gpio.NoEdge); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("epd: busy pin: %w", err)
	}

	return &Panel{spi: conn, port: port, rst: rst, dc: dc, pwr: pwr, busy: busy}, nil
}

// Init runs the controller power-up and register sequence of the 7.3" (E)
// panel, ported from the vendor reference driver.
func (p *Panel) Init(ctx context.Context) error {
	_ = p.pwr.Out(gpio.High)
	p.reset()
	if err := p.waitBusy(ctx, 5*time.Second); err != nil {
		return err
	}

	seq := []struct {
		cmd  byte
		data []byte
	}{
		{0xAA, []byte{0x49, 0x55, 0x20, 0x08, 0x09, 0x18}}, // CMDH
		{0x01, []byte{0x3F}},                               // power setting
		{0x00, []byte{0x5F, 0x69}},                         // panel setting
		{0x03, []byte{0x00, 0x54, 0x00, 0x44}},             // POFS
		{0x05, []byte{0x40, 0x1F, 0x1F, 0x2C}},             // booster 1
		{0x06, []byte{0x6F, 0x1F, 0x17, 0x49}},             // booster 2
		{0x08, []byte{0x6F, 0x1F, 0x1F, 0x22}},             // booster 3
		{0x30, []byte{0x03}},                               // PLL
		{0x50, []byte{0x3F}},                               // VCOM / data interval
		{0x60, []byte{0x02, 0x00}},                         // TCON
		{0x61, []byte{0x03, 0x20, 0x01, 0xE0}},             // resolution 800x480
		{0x84, []byte{0x01}},                               // T_VDCS
		{0xE3, []byte{0x2F}},                               // power saving
	}
	for _, step := range seq {
		if err := p.command(step.cmd, step.data...); err != nil {
			return err
		}
	}

	p.asleep = false
	appLog.Info("epd panel initialized")
	return nil
}

// Show packs the frame and runs the full refresh cycle. A 6-color refresh
// takes on the order of 20 seconds; the context bounds the busy waits.
func (p *Panel) Show(ctx context.Context, img *image.Paletted) error {
	if p.asleep {
		if err := p.Init(ctx); err != nil {
			return err
		}
	}

	buf, err := convert.PackPaletted(img)
	if err != nil {
		return err
	}

	if err := p.command(0x10); err != nil { // data start transmission
		return err
	}
	if err := p.data(buf...); err != nil {
		return err
	}

	if err := p.command(0x04); err != nil { // power on
		return err
	}
	if err := p.waitBusy(ctx, 10*time.Second); err != nil {
		return err
	}

	if err := p.command(0x12, 0x00); err != nil { // display refresh
		return err
	}
	if err := p.waitBusy(ctx, 45*time.Second); err != nil {
		return err
	}

	if err := p.command(0x02, 0x00); err != nil { // power off
		return err
	}
	return p.waitBusy(ctx, 10*time.Second)
}

// Sleep puts the controller into deep sleep; a hardware reset (Init) is
// required to wake it.
func (p *Panel) Sleep(ctx context.Context) error {
	if err := p.command(0x07, 0xA5); err != nil {
		return err
	}
	p.asleep = true
	time.Sleep(100 * time.Millisecond)
	_ = p.pwr.Out(gpio.Low)
	return nil
}

func (p *Panel) Close() error {
	_ = p.pwr.Out(gpio.Low)
	return p.port.Close()
}

func (p *Panel) reset() {
	_ = p.rst.Out(gpio.High)
	time.Sleep(20 * time.Millisecond)
	_ = p.rst.Out(gpio.Low)
	time.Sleep(2 * time.Millisecond)
	_ = p.rst.Out(gpio.High)
	time.Sleep(20 * time.Millisecond)
}

// waitBusy polls the busy pin (low = busy) until the panel is idle.
func (p *Panel) waitBusy(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for p.busy.Read() == gpio.Low {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("epd: busy timeout after %s", timeout)
		}
	}
	return nil
}

func (p *Panel) command(cmd byte, data ...byte) error {
	_ = p.dc.Out(gpio.Low)
	if err := p.spi.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("epd: command 0x%02X: %w", cmd, err)
	}
	if len(data) > 0 {
		return p.data(data...)
	}
	return nil
}

func (p *Panel) data(data ...byte) error {
	_ = p.dc.Out(gpio.High)
	// Large framebuffers are chunked to stay under the SPI transfer cap.
	const chunk = 4096
	for off := 0; off < len(data); off += chunk {
		end := off + chunk
		if end > len(data) {
			end = len(data)
		}
		if err := p.spi.Tx(data[off:end], nil); err != nil {
			return fmt.Errorf("epd: data tx: %w", err)
		}
	}
	return nil
}
