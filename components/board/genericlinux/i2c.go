package genericlinux

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/mazebot/sensorctl/components/board"
)

type i2cBus struct {
	// mu is held by an open handle, so only one transaction sequence uses the bus at a time.
	mu   sync.Mutex
	name string
	bus  i2c.BusCloser
}

func newI2cBus(name string) (*i2cBus, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, err
	}
	return &i2cBus{name: name, bus: bus}, nil
}

// This lets the i2cBus type implement the board.I2C interface.
func (bus *i2cBus) OpenHandle(addr byte) (board.I2CHandle, error) {
	bus.mu.Lock()
	return &i2cHandle{bus: bus, dev: &i2c.Dev{Bus: bus.bus, Addr: uint16(addr)}}, nil
}

func (bus *i2cBus) closeBus() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return bus.bus.Close()
}

type i2cHandle struct {
	bus    *i2cBus
	dev    *i2c.Dev
	closed bool
}

func (h *i2cHandle) Write(ctx context.Context, tx []byte) error {
	written, err := h.dev.Write(tx)
	if err != nil {
		return err
	}
	if written != len(tx) {
		return fmt.Errorf("not all bytes were written to I2C address %#x on bus %s: had %d, wrote %d",
			h.dev.Addr, h.bus.name, len(tx), written)
	}
	return nil
}

func (h *i2cHandle) ReadByteData(ctx context.Context, register byte) (byte, error) {
	result, err := h.ReadBlockData(ctx, register, 1)
	if err != nil {
		return 0, err
	}
	return result[0], nil
}

func (h *i2cHandle) WriteByteData(ctx context.Context, register, data byte) error {
	return h.Write(ctx, []byte{register, data})
}

// ReadBlockData writes the register address and reads numBytes back in one combined transaction.
func (h *i2cHandle) ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
	results := make([]byte, numBytes)
	if err := h.dev.Tx([]byte{register}, results); err != nil {
		return nil, errors.Wrapf(err, "cannot read register %#x at I2C address %#x on bus %s", register, h.dev.Addr, h.bus.name)
	}
	return results, nil
}

// Close releases the bus. Closing twice is a no-op.
func (h *i2cHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.bus.mu.Unlock()
	return nil
}
