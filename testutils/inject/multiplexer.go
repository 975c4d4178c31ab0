package inject

import (
	"context"

	"github.com/mazebot/sensorctl/components/mux"
)

// Multiplexer is an injected multiplexer.
type Multiplexer struct {
	mux.Multiplexer
	SelectFunc      func(ctx context.Context, channel int) error
	WithChannelFunc func(ctx context.Context, channel int, fn func(ctx context.Context) error) error
}

// Select calls the injected Select or the real version.
func (m *Multiplexer) Select(ctx context.Context, channel int) error {
	if m.SelectFunc == nil {
		return m.Multiplexer.Select(ctx, channel)
	}
	return m.SelectFunc(ctx, channel)
}

// WithChannel calls the injected WithChannel or the real version.
func (m *Multiplexer) WithChannel(ctx context.Context, channel int, fn func(ctx context.Context) error) error {
	if m.WithChannelFunc == nil {
		return m.Multiplexer.WithChannel(ctx, channel, fn)
	}
	return m.WithChannelFunc(ctx, channel, fn)
}
