package inject

import (
	"context"

	"github.com/mazebot/sensorctl/components/board"
)

// Board is an injected board.
type Board struct {
	board.Board
	I2CByNameFunc         func(name string) (board.I2C, bool)
	GPIOPinByNameFunc     func(name string) (board.GPIOPin, error)
	PulseReaderByNameFunc func(name string) (board.PulseReader, error)
	CloseFunc             func(ctx context.Context) error
}

// I2CByName calls the injected I2CByName or the real version.
func (b *Board) I2CByName(name string) (board.I2C, bool) {
	if b.I2CByNameFunc == nil {
		return b.Board.I2CByName(name)
	}
	return b.I2CByNameFunc(name)
}

// GPIOPinByName calls the injected GPIOPinByName or the real version.
func (b *Board) GPIOPinByName(name string) (board.GPIOPin, error) {
	if b.GPIOPinByNameFunc == nil {
		return b.Board.GPIOPinByName(name)
	}
	return b.GPIOPinByNameFunc(name)
}

// PulseReaderByName calls the injected PulseReaderByName or the real version.
func (b *Board) PulseReaderByName(name string) (board.PulseReader, error) {
	if b.PulseReaderByNameFunc == nil {
		return b.Board.PulseReaderByName(name)
	}
	return b.PulseReaderByNameFunc(name)
}

// Close calls the injected Close or the real version.
func (b *Board) Close(ctx context.Context) error {
	if b.CloseFunc == nil {
		if b.Board == nil {
			return nil
		}
		return b.Board.Close(ctx)
	}
	return b.CloseFunc(ctx)
}
