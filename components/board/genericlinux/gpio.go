//go:build linux

// This file is for GPIO lines using the ioctl interface, indirectly by way of mkch's gpio package.

package genericlinux

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/mkch/gpio"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

const consumer = "sensorctl"

func lineOffset(name string) (uint32, error) {
	offset, err := strconv.ParseUint(name, 10, 32)
	if err != nil {
		return 0, errors.Errorf("ioctl gpio pins are named by line offset, got %q", name)
	}
	return uint32(offset), nil
}

type gpioPin struct {
	// These values should both be considered immutable.
	devicePath string
	offset     uint32

	mu   sync.Mutex
	line *gpio.Line
}

func newIoctlPin(devicePath, name string) (*gpioPin, error) {
	offset, err := lineOffset(name)
	if err != nil {
		return nil, err
	}
	return &gpioPin{devicePath: devicePath, offset: offset}, nil
}

// This is a private helper function that should only be called when the mutex is locked. It sets
// pin.line to a valid struct or returns an error.
func (pin *gpioPin) openGpioFd() error {
	if pin.line != nil {
		return nil // If the pin is already opened, don't re-open it.
	}

	chip, err := gpio.OpenChip(pin.devicePath)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(chip.Close)

	// The 0 just means the default value for this pin is off. We'll set it to the intended value
	// in Set(), below.
	line, err := chip.OpenLine(pin.offset, 0, gpio.Output, consumer)
	if err != nil {
		return err
	}
	pin.line = line
	return nil
}

// This helps implement the board.GPIOPin interface for gpioPin.
func (pin *gpioPin) Set(ctx context.Context, isHigh bool, extra map[string]interface{}) error {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if err := pin.openGpioFd(); err != nil {
		return err
	}

	var value byte
	if isHigh {
		value = 1
	}
	return pin.line.SetValue(value)
}

// This helps implement the board.GPIOPin interface for gpioPin.
func (pin *gpioPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if err := pin.openGpioFd(); err != nil {
		return false, err
	}

	value, err := pin.line.Value()
	if err != nil {
		return false, err
	}

	// We'd expect value to be either 0 or 1, but any non-zero value should be considered high.
	return (value != 0), nil
}

func (pin *gpioPin) Close() error {
	// We keep the gpio.Line object open indefinitely, so it holds its state for as long as this
	// struct is around. This function is a way to close it when we're about to go out of scope, so
	// we don't leak file descriptors.
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if pin.line == nil {
		return nil // Never opened, so no need to close
	}

	err := pin.line.Close()
	pin.line = nil
	return err
}

// eventPulseReader times pulses from the kernel's timestamped edge events, which are more precise
// than anything measured in user space.
type eventPulseReader struct {
	mu   sync.Mutex
	line *gpio.LineWithEvent
}

func newIoctlPulseReader(devicePath, name string) (*eventPulseReader, error) {
	offset, err := lineOffset(name)
	if err != nil {
		return nil, err
	}
	chip, err := gpio.OpenChip(devicePath)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(chip.Close)

	line, err := chip.OpenLineWithEvents(offset, gpio.Input, gpio.BothEdges, consumer)
	if err != nil {
		return nil, err
	}
	return &eventPulseReader{line: line}, nil
}

func (pr *eventPulseReader) PulseIn(ctx context.Context, high bool, timeout time.Duration) (time.Duration, error) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	// Edges from before this call belong to an earlier pulse.
	for drained := false; !drained; {
		select {
		case <-pr.line.Events():
		default:
			drained = true
		}
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	var start time.Time
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-deadline.C:
			return 0, nil
		case event := <-pr.line.Events():
			switch {
			case event.RisingEdge == high:
				start = event.Time
			case !start.IsZero():
				return event.Time.Sub(start), nil
			default:
				// the pulse ended before we saw it start
			}
		}
	}
}

func (pr *eventPulseReader) Close() error {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.line.Close()
}
