package robotimpl

import (
	"github.com/benbjohnson/clock"

	"github.com/mazebot/sensorctl/components/board"
)

// options configures a Robot.
type options struct {
	// clk paces cycles and drives sensor timing.
	clk clock.Clock

	// board, if set, is used instead of building one from the config. The caller keeps
	// ownership and closes it.
	board board.Board
}

// Option configures how we set up the robot.
// Cribbed from https://github.com/grpc/grpc-go/blob/aff571cc86e6e7e740130dbbb32a9741558db805/dialoptions.go#L41
type Option interface {
	apply(*options)
}

// funcOption wraps a function that modifies options into an
// implementation of the Option interface.
type funcOption struct {
	f func(*options)
}

func (fdo *funcOption) apply(do *options) {
	fdo.f(do)
}

func newFuncOption(f func(*options)) *funcOption {
	return &funcOption{
		f: f,
	}
}

// WithClock returns an Option which sets the clock used for pacing and sensor timing.
func WithClock(clk clock.Clock) Option {
	return newFuncOption(func(o *options) {
		o.clk = clk
	})
}

// WithBoard returns an Option which runs the robot on an already built board.
func WithBoard(b board.Board) Option {
	return newFuncOption(func(o *options) {
		o.board = b
	})
}
