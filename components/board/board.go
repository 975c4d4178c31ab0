// Package board defines the interfaces to the buses and lines a sensor controller drives: shared
// I2C buses, GPIO output pins and input lines whose pulses can be timed.
package board

import (
	"context"
	"time"
)

// A Board gives access to the named buses and pins of a single controller.
type Board interface {
	// I2CByName returns an I2C bus by name.
	I2CByName(name string) (I2C, bool)

	// GPIOPinByName returns a GPIOPin by name.
	GPIOPinByName(name string) (GPIOPin, error)

	// PulseReaderByName returns an input line whose pulses can be measured.
	PulseReaderByName(name string) (PulseReader, error)

	// Close releases every bus and line opened through the board.
	Close(ctx context.Context) error
}

// A GPIOPin represents an individual GPIO pin on a board.
type GPIOPin interface {
	// Set sets the pin to either low or high.
	Set(ctx context.Context, high bool, extra map[string]interface{}) error

	// Get gets the high/low state of the pin.
	Get(ctx context.Context, extra map[string]interface{}) (bool, error)
}

// A PulseReader measures how long an input line stays at a level.
type PulseReader interface {
	// PulseIn waits for the line to reach the given level and returns how long it stayed there.
	// Both waits together are bounded by timeout; if the bound is reached the returned duration
	// is zero and the error is nil.
	PulseIn(ctx context.Context, high bool, timeout time.Duration) (time.Duration, error)
}
