package fake

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/components/mux"
)

// A RegisterDevice is a simulated I2C peripheral with 8-bit registers.
type RegisterDevice interface {
	ReadRegister(reg byte) byte
	WriteRegister(reg, val byte)
}

// Trunk is the channel of devices wired directly to the bus, ahead of the multiplexer.
const Trunk = -1

type deviceKey struct {
	channel int
	addr    byte
}

// I2C is a simulated bus with an 8-way multiplexer at muxAddr. Devices behind the multiplexer only
// answer while their channel is selected.
type I2C struct {
	mu       sync.Mutex
	muxAddr  byte
	selected byte
	devices  map[deviceKey]RegisterDevice
	pointers map[deviceKey]byte
	muxLog   []byte
}

// NewI2C returns an empty bus with a multiplexer at muxAddr.
func NewI2C(muxAddr byte) *I2C {
	return &I2C{
		muxAddr:  muxAddr,
		devices:  map[deviceKey]RegisterDevice{},
		pointers: map[deviceKey]byte{},
	}
}

// AddDevice places dev at addr on channel, or on the Trunk.
func (bus *I2C) AddDevice(channel int, addr byte, dev RegisterDevice) error {
	if channel != Trunk {
		if _, ok := mux.ControlByte(channel); !ok {
			return errors.Errorf("no multiplexer channel %d", channel)
		}
	}
	if addr == bus.muxAddr {
		return errors.Errorf("address %#x belongs to the multiplexer", addr)
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.devices[deviceKey{channel, addr}] = dev
	return nil
}

// Selections returns every control byte written to the multiplexer, oldest first.
func (bus *I2C) Selections() []byte {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return append([]byte(nil), bus.muxLog...)
}

// OpenHandle opens a handle to addr. Devices are resolved at each transaction.
func (bus *I2C) OpenHandle(addr byte) (board.I2CHandle, error) {
	return &i2cHandle{bus: bus, addr: addr}, nil
}

// resolve returns the device answering at addr. Caller holds mu.
func (bus *I2C) resolve(addr byte) (deviceKey, RegisterDevice, error) {
	key := deviceKey{Trunk, addr}
	if dev, ok := bus.devices[key]; ok {
		return key, dev, nil
	}
	var found []deviceKey
	for c := 0; c <= mux.MaxChannel; c++ {
		if bus.selected&(1<<c) == 0 {
			continue
		}
		if _, ok := bus.devices[deviceKey{c, addr}]; ok {
			found = append(found, deviceKey{c, addr})
		}
	}
	switch len(found) {
	case 0:
		return deviceKey{}, nil, errors.Errorf("no device acknowledged address %#x", addr)
	case 1:
		return found[0], bus.devices[found[0]], nil
	default:
		return deviceKey{}, nil, errors.Errorf("address %#x collides on %d selected channels", addr, len(found))
	}
}

type i2cHandle struct {
	bus  *I2C
	addr byte
}

func (h *i2cHandle) Write(ctx context.Context, tx []byte) error {
	h.bus.mu.Lock()
	defer h.bus.mu.Unlock()

	if h.addr == h.bus.muxAddr {
		if len(tx) != 1 {
			return errors.Errorf("multiplexer expects 1 control byte, got %d", len(tx))
		}
		h.bus.selected = tx[0]
		h.bus.muxLog = append(h.bus.muxLog, tx[0])
		return nil
	}
	if len(tx) == 0 {
		return nil
	}
	key, dev, err := h.bus.resolve(h.addr)
	if err != nil {
		return err
	}
	reg := tx[0]
	for _, b := range tx[1:] {
		dev.WriteRegister(reg, b)
		reg++
	}
	h.bus.pointers[key] = reg
	return nil
}

// read continues from the device's register pointer.
func (h *i2cHandle) read(count int) ([]byte, error) {
	h.bus.mu.Lock()
	defer h.bus.mu.Unlock()

	if h.addr == h.bus.muxAddr {
		out := make([]byte, count)
		for i := range out {
			out[i] = h.bus.selected
		}
		return out, nil
	}
	key, dev, err := h.bus.resolve(h.addr)
	if err != nil {
		return nil, err
	}
	reg := h.bus.pointers[key]
	out := make([]byte, count)
	for i := range out {
		out[i] = dev.ReadRegister(reg)
		reg++
	}
	h.bus.pointers[key] = reg
	return out, nil
}

func (h *i2cHandle) ReadByteData(ctx context.Context, register byte) (byte, error) {
	out, err := h.ReadBlockData(ctx, register, 1)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

func (h *i2cHandle) WriteByteData(ctx context.Context, register, data byte) error {
	return h.Write(ctx, []byte{register, data})
}

func (h *i2cHandle) ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
	if err := h.Write(ctx, []byte{register}); err != nil {
		return nil, err
	}
	return h.read(int(numBytes))
}

func (h *i2cHandle) Close() error {
	return nil
}
