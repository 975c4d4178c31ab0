// Package genericlinux implements a Linux board. I2C buses are opened through periph.io. GPIO
// lines go through periph.io by default, or through the GPIO character device (ioctl) when the
// board is configured for it.
package genericlinux

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/host/v3"

	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/logging"
)

var _ = board.Board(&Board{})

// NewBoard initializes the host drivers and opens the configured I2C buses.
func NewBoard(ctx context.Context, conf *board.Config, logger logging.Logger) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "cannot initialize periph host drivers")
	}

	b := &Board{
		i2cs:     make(map[string]*i2cBus, len(conf.I2Cs)),
		pins:     map[string]board.GPIOPin{},
		readers:  map[string]board.PulseReader{},
		useIoctl: conf.UseIoctlGPIO,
		chipDev:  conf.GPIOChipDev,
		logger:   logger,
	}
	for _, i2cConf := range conf.I2Cs {
		bus, err := newI2cBus(i2cConf.Bus)
		if err != nil {
			return nil, multierr.Combine(
				errors.Wrapf(err, "cannot open I2C bus %q", i2cConf.Bus),
				b.Close(ctx))
		}
		b.i2cs[i2cConf.Name] = bus
	}
	logger.Debugw("linux board ready", "i2cs", len(b.i2cs), "ioctl_gpio", b.useIoctl)
	return b, nil
}

// Board is a Linux board. Pins are opened the first time they are asked for and stay open until
// Close.
type Board struct {
	mu       sync.Mutex
	i2cs     map[string]*i2cBus
	pins     map[string]board.GPIOPin
	readers  map[string]board.PulseReader
	useIoctl bool
	chipDev  string
	logger   logging.Logger
}

// I2CByName returns the i2c by the given name if it exists.
func (b *Board) I2CByName(name string) (board.I2C, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bus, ok := b.i2cs[name]
	if !ok {
		return nil, false
	}
	return bus, true
}

// GPIOPinByName returns an output pin. With periph.io, name is a pin name known to gpioreg such as
// "GPIO17"; with ioctl GPIO it is the line offset on the configured chip.
func (b *Board) GPIOPinByName(name string) (board.GPIOPin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pin, ok := b.pins[name]; ok {
		return pin, nil
	}
	var (
		pin board.GPIOPin
		err error
	)
	if b.useIoctl {
		pin, err = newIoctlPin(b.chipDev, name)
	} else {
		pin, err = newPeriphPin(name)
	}
	if err != nil {
		return nil, err
	}
	b.pins[name] = pin
	return pin, nil
}

// PulseReaderByName returns an input line whose pulses can be timed. Names follow GPIOPinByName.
func (b *Board) PulseReaderByName(name string) (board.PulseReader, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if reader, ok := b.readers[name]; ok {
		return reader, nil
	}
	var (
		reader board.PulseReader
		err    error
	)
	if b.useIoctl {
		reader, err = newIoctlPulseReader(b.chipDev, name)
	} else {
		reader, err = newPeriphPulseReader(name)
	}
	if err != nil {
		return nil, err
	}
	b.readers[name] = reader
	return reader, nil
}

// Close releases every bus and line the board opened.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	for _, bus := range b.i2cs {
		err = multierr.Combine(err, bus.closeBus())
	}
	for _, pin := range b.pins {
		if c, ok := pin.(io.Closer); ok {
			err = multierr.Combine(err, c.Close())
		}
	}
	for _, reader := range b.readers {
		if c, ok := reader.(io.Closer); ok {
			err = multierr.Combine(err, c.Close())
		}
	}
	b.i2cs = map[string]*i2cBus{}
	b.pins = map[string]board.GPIOPin{}
	b.readers = map[string]board.PulseReader{}
	return err
}
