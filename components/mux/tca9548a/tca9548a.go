// Package tca9548a implements the TCA9548A 8-channel I2C multiplexer. A single byte written to
// the multiplexer's own address is a bitmask of the downstream channels to connect; this driver
// only ever connects one.
package tca9548a

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/components/mux"
	"github.com/mazebot/sensorctl/logging"
)

// DefaultAddress is the address of a TCA9548A with A0-A2 tied low.
const DefaultAddress = 0x70

var _ = mux.Multiplexer(&Mux{})

// Mux is a TCA9548A on a shared I2C bus.
type Mux struct {
	// mu is held from a selection until the transactions that rely on it are done.
	mu     sync.Mutex
	bus    board.I2C
	addr   byte
	logger logging.Logger
}

// New returns a multiplexer at addr on bus. A zero addr means DefaultAddress.
func New(bus board.I2C, addr byte, logger logging.Logger) *Mux {
	if addr == 0 {
		addr = DefaultAddress
	}
	return &Mux{bus: bus, addr: addr, logger: logger}
}

// Select makes channel the active downstream channel.
func (m *Mux) Select(ctx context.Context, channel int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectLocked(ctx, channel)
}

// WithChannel selects channel and runs fn before any other caller may select again.
func (m *Mux) WithChannel(ctx context.Context, channel int, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.selectLocked(ctx, channel); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *Mux) selectLocked(ctx context.Context, channel int) error {
	ctrl, ok := mux.ControlByte(channel)
	if !ok {
		m.logger.Debugw("ignoring selection of out of range channel", "channel", channel)
		return nil
	}

	handle, err := m.bus.OpenHandle(m.addr)
	if err != nil {
		return errors.Wrapf(err, "tca9548a: cannot open handle at address %#x", m.addr)
	}
	defer utils.UncheckedErrorFunc(handle.Close)

	if err := handle.Write(ctx, []byte{ctrl}); err != nil {
		return errors.Wrapf(err, "tca9548a: cannot select channel %d", channel)
	}
	return nil
}
