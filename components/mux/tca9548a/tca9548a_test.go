package tca9548a

import (
	"context"
	"errors"
	"testing"

	"go.viam.com/test"

	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/logging"
	"github.com/mazebot/sensorctl/testutils/inject"
)

type recordingBus struct {
	bus      *inject.I2C
	addrs    []byte
	writes   [][]byte
	closes   int
	writeErr error
}

func newRecordingBus() *recordingBus {
	rb := &recordingBus{}
	rb.bus = &inject.I2C{
		OpenHandleFunc: func(addr byte) (board.I2CHandle, error) {
			rb.addrs = append(rb.addrs, addr)
			return &inject.I2CHandle{
				WriteFunc: func(ctx context.Context, tx []byte) error {
					rb.writes = append(rb.writes, append([]byte(nil), tx...))
					return rb.writeErr
				},
				CloseFunc: func() error {
					rb.closes++
					return nil
				},
			}, nil
		},
	}
	return rb
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)

	for channel := 0; channel <= 7; channel++ {
		rb := newRecordingBus()
		m := New(rb.bus, 0, logger)
		test.That(t, m.Select(ctx, channel), test.ShouldBeNil)
		test.That(t, rb.addrs, test.ShouldResemble, []byte{DefaultAddress})
		test.That(t, rb.writes, test.ShouldResemble, [][]byte{{byte(1 << channel)}})
		test.That(t, rb.closes, test.ShouldEqual, 1)
	}
}

func TestSelectOutOfRange(t *testing.T) {
	ctx := context.Background()
	rb := newRecordingBus()
	m := New(rb.bus, 0x71, logging.NewTestLogger(t))

	for _, channel := range []int{8, 12, 255, -1} {
		test.That(t, m.Select(ctx, channel), test.ShouldBeNil)
	}
	test.That(t, rb.addrs, test.ShouldBeEmpty)
	test.That(t, rb.writes, test.ShouldBeEmpty)

	test.That(t, m.Select(ctx, 3), test.ShouldBeNil)
	test.That(t, rb.addrs, test.ShouldResemble, []byte{0x71})
}

func TestSelectBusError(t *testing.T) {
	ctx := context.Background()
	rb := newRecordingBus()
	rb.writeErr = errors.New("nack")
	m := New(rb.bus, 0, logging.NewTestLogger(t))

	err := m.Select(ctx, 2)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "nack")
	test.That(t, rb.closes, test.ShouldEqual, 1)

	ran := false
	err = m.WithChannel(ctx, 2, func(ctx context.Context) error {
		ran = true
		return nil
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, ran, test.ShouldBeFalse)
}

func TestWithChannel(t *testing.T) {
	ctx := context.Background()
	rb := newRecordingBus()
	m := New(rb.bus, 0, logging.NewTestLogger(t))

	var writesSeen int
	err := m.WithChannel(ctx, 5, func(ctx context.Context) error {
		writesSeen = len(rb.writes)
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	// The selection is on the bus before fn runs.
	test.That(t, writesSeen, test.ShouldEqual, 1)
	test.That(t, rb.writes[0], test.ShouldResemble, []byte{0x20})

	sentinel := errors.New("read failed")
	err = m.WithChannel(ctx, 1, func(ctx context.Context) error { return sentinel })
	test.That(t, err, test.ShouldEqual, sentinel)
}
