// Package fake implements a fake board whose I2C buses carry simulated multiplexers and color
// sensors and whose echo lines report scripted pulse widths.
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/components/colorsensor"
	"github.com/mazebot/sensorctl/components/colorsensor/apds9960"
	"github.com/mazebot/sensorctl/components/mux/tca9548a"
	"github.com/mazebot/sensorctl/logging"
)

var _ = board.Board(&Board{})

// NewBoard returns a new fake board. Every configured bus gets a multiplexer at its default
// address and the scripted color sensors behind it.
func NewBoard(conf *board.Config, logger logging.Logger) (*Board, error) {
	b := &Board{
		I2Cs:         map[string]*I2C{},
		GPIOPins:     map[string]*GPIOPin{},
		PulseReaders: map[string]*PulseReader{},
		logger:       logger,
	}

	for _, c := range conf.I2Cs {
		bus := NewI2C(tca9548a.DefaultAddress)
		if conf.Fake != nil {
			for _, s := range conf.Fake.ColorSamples {
				sample := colorsensor.Sample{Red: s.Red, Green: s.Green, Blue: s.Blue, Clear: s.Clear}
				if err := bus.AddDevice(s.Channel, apds9960.DefaultAddress, NewColorChip(sample, !s.NotReady)); err != nil {
					return nil, errors.Wrapf(err, "fake board bus %q", c.Name)
				}
			}
		}
		b.I2Cs[c.Name] = bus
	}
	if conf.Fake != nil {
		for _, e := range conf.Fake.EchoWidths {
			b.PulseReaders[e.Pin] = &PulseReader{Width: time.Duration(e.WidthUs) * time.Microsecond}
		}
	}
	return b, nil
}

// A Board provides dummy data from fake parts in order to implement a Board.
type Board struct {
	mu           sync.Mutex
	I2Cs         map[string]*I2C
	GPIOPins     map[string]*GPIOPin
	PulseReaders map[string]*PulseReader
	logger       logging.Logger
	CloseCount   int
}

// I2CByName returns the i2c by the given name if it exists.
func (b *Board) I2CByName(name string) (board.I2C, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bus, ok := b.I2Cs[name]
	if !ok {
		return nil, false
	}
	return bus, true
}

// GPIOPinByName returns the GPIO pin by the given name, creating it if needed.
func (b *Board) GPIOPinByName(name string) (board.GPIOPin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.GPIOPins[name]
	if !ok {
		p = &GPIOPin{}
		b.GPIOPins[name] = p
	}
	return p, nil
}

// PulseReaderByName returns the pulse reader by the given name, creating a silent one if needed.
func (b *Board) PulseReaderByName(name string) (board.PulseReader, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.PulseReaders[name]
	if !ok {
		p = &PulseReader{}
		b.PulseReaders[name] = p
	}
	return p, nil
}

// Close attempts to cleanly close each part of the board.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	return nil
}

// A GPIOPin reads back the same set values and remembers every level it was set to.
type GPIOPin struct {
	mu     sync.Mutex
	high   bool
	levels []bool
}

// Set sets the pin to either low or high.
func (gp *GPIOPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	gp.high = high
	gp.levels = append(gp.levels, high)
	return nil
}

// Get gets the high/low state of the pin.
func (gp *GPIOPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return gp.high, nil
}

// Levels returns every level the pin has been set to, oldest first.
func (gp *GPIOPin) Levels() []bool {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return append([]bool(nil), gp.levels...)
}

// A PulseReader reports a fixed pulse width. A zero width is a line that never pulses.
type PulseReader struct {
	mu    sync.Mutex
	Width time.Duration
}

// PulseIn returns the scripted width, or zero if it would not fit within timeout.
func (pr *PulseReader) PulseIn(ctx context.Context, high bool, timeout time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.Width > timeout {
		return 0, nil
	}
	return pr.Width, nil
}

// SetWidth changes the scripted width.
func (pr *PulseReader) SetWidth(width time.Duration) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.Width = width
}
