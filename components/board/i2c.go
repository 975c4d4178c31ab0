package board

import (
	"context"
)

// I2C is a shared I2C bus.
type I2C interface {
	// OpenHandle locks the bus for addr until the returned handle is closed. A second handle on
	// the same bus blocks until then.
	OpenHandle(addr byte) (I2CHandle, error)
}

// I2CHandle talks to one device on a locked bus. It MUST be closed to release the bus.
type I2CHandle interface {
	// Write sends tx as one transaction. The multiplexer takes its control byte this way.
	Write(ctx context.Context, tx []byte) error

	ReadByteData(ctx context.Context, register byte) (byte, error)
	WriteByteData(ctx context.Context, register, data byte) error
	// ReadBlockData reads numBytes starting at register.
	ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error)

	Close() error
}
