package inject

import (
	"context"
	"time"

	"github.com/mazebot/sensorctl/components/board"
)

// GPIOPin is an injected GPIOPin.
type GPIOPin struct {
	board.GPIOPin

	SetFunc func(ctx context.Context, high bool, extra map[string]interface{}) error
	setCap  []interface{}
	GetFunc func(ctx context.Context, extra map[string]interface{}) (bool, error)
}

// Set calls the injected Set or the real version.
func (gp *GPIOPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	gp.setCap = []interface{}{ctx, high, extra}
	if gp.SetFunc == nil {
		return gp.GPIOPin.Set(ctx, high, extra)
	}
	return gp.SetFunc(ctx, high, extra)
}

// SetCap returns the last parameters received by Set, and then clears them.
func (gp *GPIOPin) SetCap() []interface{} {
	if gp == nil {
		return nil
	}
	defer func() { gp.setCap = nil }()
	return gp.setCap
}

// Get calls the injected Get or the real version.
func (gp *GPIOPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	if gp.GetFunc == nil {
		return gp.GPIOPin.Get(ctx, extra)
	}
	return gp.GetFunc(ctx, extra)
}

// PulseReader is an injected PulseReader.
type PulseReader struct {
	board.PulseReader
	PulseInFunc func(ctx context.Context, high bool, timeout time.Duration) (time.Duration, error)
}

// PulseIn calls the injected PulseIn or the real version.
func (pr *PulseReader) PulseIn(ctx context.Context, high bool, timeout time.Duration) (time.Duration, error) {
	if pr.PulseInFunc == nil {
		return pr.PulseReader.PulseIn(ctx, high, timeout)
	}
	return pr.PulseInFunc(ctx, high, timeout)
}
