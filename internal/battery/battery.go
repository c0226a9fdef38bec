// Package battery reads the PiSugar3 UPS over I2C for the footer status
// line and the /api/battery endpoint, with a mock reader for development.
package battery

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	appLog "inkcal/internal/log"
	"inkcal/internal/model"
)

// Reader abstracts how battery information is obtained, so development
// hosts get a mock and the Raspberry Pi gets the real I2C controller.
type Reader interface {
	Read(ctx context.Context) (model.BatteryStatus, error)
}

// PiSugar3 register map (7-bit address 0x75):
//   - 0x22 (high), 0x23 (low): battery voltage in millivolts
//   - 0x2A: battery percentage (0-100)
const (
	DefaultAddr = 0x75

	regVoltageHigh = 0x22
	regVoltageLow  = 0x23
	regPercent     = 0x2A
)

type mockReader struct {
	rnd *rand.Rand
}

// NewMockReader constructs a Reader that generates plausible random
// percentages, for development on non-Pi machines.
func NewMockReader() Reader {
	return &mockReader{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (m *mockReader) Read(context.Context) (model.BatteryStatus, error) {
	return model.BatteryStatus{Percent: 40 + m.rnd.Intn(60)}, nil
}

type i2cReader struct {
	busName string
	addr    uint16
}

// NewI2CReader constructs an I2C-backed Reader. busName "" selects the
// default bus (typically /dev/i2c-1 on a Raspberry Pi). The bus is opened
// per Read; host.Init is cheap after the first call.
func NewI2CReader(busName string, addr uint16) Reader {
	if addr == 0 {
		addr = DefaultAddr
	}
	return &i2cReader{busName: busName, addr: addr}
}

func (r *i2cReader) Read(ctx context.Context) (model.BatteryStatus, error) {
	if _, err := host.Init(); err != nil {
		return model.BatteryStatus{}, fmt.Errorf("battery: periph host init: %w", err)
	}

	bus, err := i2creg.Open(r.busName)
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("battery: open i2c bus: %w", err)
	}
	defer bus.Close()

	dev := &i2c.Dev{Bus: bus, Addr: r.addr}

	readReg := func(reg byte) (byte, error) {
		var buf [1]byte
		if err := dev.Tx([]byte{reg}, buf[:]); err != nil {
			return 0, err
		}
		return buf[0], nil
	}

	pct, err := readReg(regPercent)
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("battery: read percent: %w", err)
	}
	if pct > 100 {
		return model.BatteryStatus{}, errors.New("battery: implausible percent reading")
	}

	status := model.BatteryStatus{Percent: int(pct)}

	// Voltage is informational; a failed read is not fatal.
	hi, errHi := readReg(regVoltageHigh)
	lo, errLo := readReg(regVoltageLow)
	if errHi == nil && errLo == nil {
		status.VoltageMv = int(hi)<<8 | int(lo)
	} else {
		appLog.Debug("battery voltage read failed", "err_hi", errHi, "err_lo", errLo)
	}

	return status, nil
}
