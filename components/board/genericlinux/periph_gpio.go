package genericlinux

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// periphPin is an output pin driven through periph.io.
type periphPin struct {
	pin gpio.PinIO
}

func newPeriphPin(name string) (*periphPin, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, errors.Errorf("no gpio pin named %q", name)
	}
	return &periphPin{pin: pin}, nil
}

func (pp *periphPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	return pp.pin.Out(gpio.Level(high))
}

func (pp *periphPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	return bool(pp.pin.Read()), nil
}

// periphPulseReader times pulses with periph.io edge detection.
type periphPulseReader struct {
	pin gpio.PinIO
}

func newPeriphPulseReader(name string) (*periphPulseReader, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, errors.Errorf("no gpio pin named %q", name)
	}
	if err := pin.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return nil, errors.Wrapf(err, "cannot watch edges on %q", name)
	}
	return &periphPulseReader{pin: pin}, nil
}

func (pr *periphPulseReader) PulseIn(ctx context.Context, high bool, timeout time.Duration) (time.Duration, error) {
	level := gpio.Level(high)
	deadline := time.Now().Add(timeout)

	// a pulse already under way when we start is not timed
	if ok, err := pr.waitWhile(ctx, level, deadline); !ok {
		return 0, err
	}
	if ok, err := pr.waitWhile(ctx, !level, deadline); !ok {
		return 0, err
	}
	start := time.Now()
	if ok, err := pr.waitWhile(ctx, level, deadline); !ok {
		return 0, err
	}
	return time.Since(start), nil
}

// waitWhile waits for the line to leave level. It reports false once the deadline passes, with
// the context's error if that ended the wait.
func (pr *periphPulseReader) waitWhile(ctx context.Context, level gpio.Level, deadline time.Time) (bool, error) {
	for pr.pin.Read() == level {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}
		pr.pin.WaitForEdge(remaining)
	}
	return true, nil
}

func (pr *periphPulseReader) Close() error {
	return pr.pin.Halt()
}
