// Package ultrasonic implements an HC-SR04 style ultrasonic range finder: a trigger line that
// starts a ping and an echo line that stays high for the sound's round trip.
package ultrasonic

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/components/sensor"
	"github.com/mazebot/sensorctl/logging"
)

const (
	// SpeedOfSoundCMPerUs is the speed of sound in air in centimeters per microsecond.
	SpeedOfSoundCMPerUs = 0.034

	// DefaultTimeout bounds the echo pulse, roughly a five meter round trip.
	DefaultTimeout = 30 * time.Millisecond

	settleLow   = 2 * time.Microsecond
	triggerHigh = 10 * time.Microsecond
)

// Config is used for converting config attributes.
type Config struct {
	TriggerPin string `json:"trigger_pin"`
	EchoPin    string `json:"echo_pin"`
	TimeoutMs  uint   `json:"timeout_ms,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (config *Config) Validate(path string) error {
	if len(config.TriggerPin) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "trigger_pin")
	}
	if len(config.EchoPin) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "echo_pin")
	}
	return nil
}

// DistanceCM converts an echo pulse width to a one-way distance in centimeters.
func DistanceCM(elapsed time.Duration) float64 {
	us := float64(elapsed) / float64(time.Microsecond)
	return us * SpeedOfSoundCMPerUs / 2
}

var _ = sensor.DistanceSensor(&Sensor{})

// Sensor ultrasonic sensor.
type Sensor struct {
	Name       string
	triggerPin board.GPIOPin
	echo       board.PulseReader
	timeout    time.Duration
	clk        clock.Clock
	logger     logging.Logger
}

// NewSensor grabs the sensor's lines from b and drives the trigger low.
func NewSensor(
	ctx context.Context,
	b board.Board,
	name string,
	config *Config,
	clk clock.Clock,
	logger logging.Logger,
) (*Sensor, error) {
	logger.Debugw("building ultrasonic sensor", "name", name)
	s := &Sensor{Name: name, clk: clk, logger: logger}

	g, err := b.GPIOPinByName(config.TriggerPin)
	if err != nil {
		return nil, errors.Wrapf(err, "ultrasonic: cannot grab gpio %q", config.TriggerPin)
	}
	e, err := b.PulseReaderByName(config.EchoPin)
	if err != nil {
		return nil, errors.Wrapf(err, "ultrasonic: cannot grab echo line %q", config.EchoPin)
	}
	s.triggerPin = g
	s.echo = e

	if config.TimeoutMs > 0 {
		s.timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	} else {
		s.timeout = DefaultTimeout
	}

	if err := s.triggerPin.Set(ctx, false, nil); err != nil {
		return nil, errors.Wrap(err, "ultrasonic: cannot set trigger pin to low")
	}
	return s, nil
}

func (s *Sensor) namedError(err error) error {
	return errors.Wrapf(
		err, "Error in ultrasonic sensor with name %s: ", s.Name,
	)
}

// Distance pings once and returns the distance to the nearest object in centimeters. No echo
// within the timeout yields 0 and no error.
func (s *Sensor) Distance(ctx context.Context) (float64, error) {
	// low for 2us, high for 10us, then low again starts the ping
	if err := s.triggerPin.Set(ctx, false, nil); err != nil {
		return 0, s.namedError(errors.Wrap(err, "ultrasonic cannot set trigger pin to low"))
	}
	s.clk.Sleep(settleLow)
	if err := s.triggerPin.Set(ctx, true, nil); err != nil {
		return 0, s.namedError(errors.Wrap(err, "ultrasonic cannot set trigger pin to high"))
	}
	s.clk.Sleep(triggerHigh)
	if err := s.triggerPin.Set(ctx, false, nil); err != nil {
		return 0, s.namedError(errors.Wrap(err, "ultrasonic cannot set trigger pin to low"))
	}

	elapsed, err := s.echo.PulseIn(ctx, true, s.timeout)
	if err != nil {
		return 0, s.namedError(errors.Wrap(err, "ultrasonic cannot time echo"))
	}
	if elapsed == 0 {
		s.logger.CDebugw(ctx, "no echo", "name", s.Name, "timeout", s.timeout)
	}
	return DistanceCM(elapsed), nil
}
