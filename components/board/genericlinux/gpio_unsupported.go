//go:build !linux

package genericlinux

import (
	"github.com/pkg/errors"

	"github.com/mazebot/sensorctl/components/board"
)

var errNoIoctlGPIO = errors.New("ioctl gpio is only available on linux")

func newIoctlPin(devicePath, name string) (board.GPIOPin, error) {
	return nil, errNoIoctlGPIO
}

func newIoctlPulseReader(devicePath, name string) (board.PulseReader, error) {
	return nil, errNoIoctlGPIO
}
