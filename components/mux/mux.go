// Package mux defines the interface to a bus multiplexer: a device that exposes one of several
// downstream channels of a shared bus at a time.
package mux

import (
	"context"
)

// MaxChannel is the highest channel an 8-way multiplexer can select.
const MaxChannel = 7

// A Multiplexer selects which downstream channel subsequent bus transactions reach. At most one
// channel is selected at any instant.
type Multiplexer interface {
	// Select makes channel the active one until the next call. Channels outside
	// [0, MaxChannel] are ignored: no bus traffic is issued and no error is returned.
	Select(ctx context.Context, channel int) error

	// WithChannel selects channel and runs fn while no other caller can change the selection.
	// fn is not run if the selection fails.
	WithChannel(ctx context.Context, channel int, fn func(ctx context.Context) error) error
}

// ControlByte returns the one-hot control byte that selects channel and whether channel can be
// selected at all.
func ControlByte(channel int) (byte, bool) {
	if channel < 0 || channel > MaxChannel {
		return 0, false
	}
	return 1 << channel, true
}
