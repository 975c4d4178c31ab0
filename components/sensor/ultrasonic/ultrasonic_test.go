package ultrasonic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/logging"
	"github.com/mazebot/sensorctl/testutils/inject"
)

const (
	testSensorName = "ultrasonic1"
	triggerPin     = "some-pin"
	echoPin        = "some-echo-pin"
)

type lines struct {
	board   *inject.Board
	trigger *inject.GPIOPin
	levels  []bool
	timeout time.Duration
	width   time.Duration
	echoErr error
}

func setupBoard(t *testing.T) *lines {
	t.Helper()

	l := &lines{}
	pin := &inject.GPIOPin{}
	pin.SetFunc = func(ctx context.Context, high bool, extra map[string]interface{}) error {
		l.levels = append(l.levels, high)
		return nil
	}
	echo := &inject.PulseReader{}
	echo.PulseInFunc = func(ctx context.Context, high bool, timeout time.Duration) (time.Duration, error) {
		test.That(t, high, test.ShouldBeTrue)
		l.timeout = timeout
		return l.width, l.echoErr
	}
	l.trigger = pin
	l.board = &inject.Board{
		GPIOPinByNameFunc: func(name string) (board.GPIOPin, error) {
			if name != triggerPin {
				return nil, errors.New("no such pin")
			}
			return pin, nil
		},
		PulseReaderByNameFunc: func(name string) (board.PulseReader, error) {
			if name != echoPin {
				return nil, errors.New("no such line")
			}
			return echo, nil
		},
	}
	return l
}

func TestValidate(t *testing.T) {
	fakecfg := &Config{}
	err := fakecfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "trigger_pin")

	fakecfg.TriggerPin = triggerPin
	err = fakecfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "echo_pin")

	fakecfg.EchoPin = echoPin
	test.That(t, fakecfg.Validate("path"), test.ShouldBeNil)
}

func TestDistanceCM(t *testing.T) {
	test.That(t, DistanceCM(1000*time.Microsecond), test.ShouldAlmostEqual, 17.0)
	test.That(t, DistanceCM(0), test.ShouldEqual, 0.0)
	test.That(t, DistanceCM(DefaultTimeout), test.ShouldAlmostEqual, 510.0)
}

func TestNewSensor(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)
	l := setupBoard(t)

	_, err := NewSensor(ctx, l.board, testSensorName, &Config{TriggerPin: triggerPin, EchoPin: echoPin}, clock.New(), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l.levels, test.ShouldResemble, []bool{false})

	_, err = NewSensor(ctx, l.board, testSensorName, &Config{TriggerPin: "nope", EchoPin: echoPin}, clock.New(), logger)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewSensor(ctx, l.board, testSensorName, &Config{TriggerPin: triggerPin, EchoPin: "nope"}, clock.New(), logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestDistance(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)

	t.Run("echo", func(t *testing.T) {
		l := setupBoard(t)
		s, err := NewSensor(ctx, l.board, testSensorName, &Config{TriggerPin: triggerPin, EchoPin: echoPin}, clock.New(), logger)
		test.That(t, err, test.ShouldBeNil)
		l.levels = nil
		l.width = 1000 * time.Microsecond

		cm, err := s.Distance(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cm, test.ShouldAlmostEqual, 17.0)
		test.That(t, l.levels, test.ShouldResemble, []bool{false, true, false})
		test.That(t, l.timeout, test.ShouldEqual, DefaultTimeout)
		// the trigger is left low
		test.That(t, l.trigger.SetCap()[1], test.ShouldEqual, false)
	})

	t.Run("no echo", func(t *testing.T) {
		l := setupBoard(t)
		s, err := NewSensor(ctx, l.board, testSensorName,
			&Config{TriggerPin: triggerPin, EchoPin: echoPin, TimeoutMs: 5}, clock.New(), logger)
		test.That(t, err, test.ShouldBeNil)

		cm, err := s.Distance(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cm, test.ShouldEqual, 0.0)
		test.That(t, l.timeout, test.ShouldEqual, 5*time.Millisecond)
	})

	t.Run("line error", func(t *testing.T) {
		l := setupBoard(t)
		s, err := NewSensor(ctx, l.board, testSensorName, &Config{TriggerPin: triggerPin, EchoPin: echoPin}, clock.New(), logger)
		test.That(t, err, test.ShouldBeNil)
		l.echoErr = errors.New("line gone")

		_, err = s.Distance(ctx)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, testSensorName)
	})
}
