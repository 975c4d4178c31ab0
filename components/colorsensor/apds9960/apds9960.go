// Package apds9960 implements the RGBC half of the Broadcom APDS-9960 proximity, gesture and
// color sensor. Only ambient light and color acquisition is enabled.
// Register layout from the APDS-9960 datasheet (AV02-4191EN).
package apds9960

import (
	"context"
	"encoding/binary"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/components/colorsensor"
	"github.com/mazebot/sensorctl/logging"
)

// DefaultAddress is the only address the APDS-9960 answers on.
const DefaultAddress = 0x39

// Registers and bits.
const (
	RegEnable  = 0x80
	RegATime   = 0x81
	RegControl = 0x8F
	RegID      = 0x92
	RegStatus  = 0x93
	RegCDataL  = 0x94

	EnablePON    = 0x01
	EnableAEN    = 0x02
	StatusAValid = 0x01

	// DeviceID is what RegID reads back on a genuine part.
	DeviceID = 0xAB

	// sampleLen covers CDATAL through BDATAH.
	sampleLen = 8
)

const (
	defaultGain              = 4
	defaultIntegrationTimeMs = 10.0
	atimeStepMs              = 2.78
	powerOnDelay             = 10 * time.Millisecond
)

var gainCodes = map[int]byte{1: 0, 4: 1, 16: 2, 64: 3}

var _ = colorsensor.ColorSensor(&Sensor{})

// Config is used for converting a color sensor's attributes.
type Config struct {
	Gain              int     `json:"gain,omitempty"`
	IntegrationTimeMs float64 `json:"integration_time_ms,omitempty"`
	I2CAddr           int     `json:"i2c_addr,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if conf.Gain != 0 {
		if _, ok := gainCodes[conf.Gain]; !ok {
			return utils.NewConfigValidationError(path, errors.Errorf("gain must be one of 1, 4, 16 or 64, got %d", conf.Gain))
		}
	}
	if conf.IntegrationTimeMs < 0 || conf.IntegrationTimeMs > 256*atimeStepMs {
		return utils.NewConfigValidationError(path,
			errors.Errorf("integration_time_ms must be between %.2f and %.2f", atimeStepMs, 256*atimeStepMs))
	}
	if conf.I2CAddr < 0 || conf.I2CAddr > 0x7f {
		return utils.NewConfigValidationError(path, errors.Errorf("invalid i2c_addr %#x", conf.I2CAddr))
	}
	return nil
}

// ATime returns the ATIME register value closest to the requested integration time.
func ATime(integrationTimeMs float64) byte {
	cycles := math.Round(integrationTimeMs / atimeStepMs)
	if cycles < 1 {
		cycles = 1
	}
	if cycles > 256 {
		cycles = 256
	}
	return byte(256 - int(cycles))
}

// Sensor is an APDS-9960 behind a shared I2C bus.
type Sensor struct {
	bus    board.I2C
	addr   byte
	gain   int
	itime  float64
	clk    clock.Clock
	logger logging.Logger
}

// NewSensor returns a sensor on bus. It does no I/O; call Init once the sensor's multiplexer
// channel is selected.
func NewSensor(bus board.I2C, conf Config, clk clock.Clock, logger logging.Logger) *Sensor {
	s := &Sensor{
		bus:    bus,
		addr:   byte(conf.I2CAddr),
		gain:   conf.Gain,
		itime:  conf.IntegrationTimeMs,
		clk:    clk,
		logger: logger,
	}
	if s.addr == 0 {
		s.addr = DefaultAddress
	}
	if s.gain == 0 {
		s.gain = defaultGain
	}
	if s.itime == 0 {
		s.itime = defaultIntegrationTimeMs
	}
	return s
}

// Init checks the device ID, programs integration time and gain, then powers the ADC on.
func (s *Sensor) Init(ctx context.Context) error {
	handle, err := s.bus.OpenHandle(s.addr)
	if err != nil {
		return errors.Wrap(err, "apds9960: cannot open handle")
	}
	defer utils.UncheckedErrorFunc(handle.Close)

	id, err := handle.ReadByteData(ctx, RegID)
	if err != nil {
		return errors.Wrap(err, "apds9960: cannot read device id")
	}
	if id != DeviceID {
		return errors.Errorf("apds9960: unexpected device id %#x", id)
	}

	steps := []struct {
		reg, val byte
	}{
		{RegEnable, 0},
		{RegATime, ATime(s.itime)},
		{RegControl, gainCodes[s.gain]},
		{RegEnable, EnablePON},
	}
	for _, step := range steps {
		if err := handle.WriteByteData(ctx, step.reg, step.val); err != nil {
			return errors.Wrapf(err, "apds9960: cannot write register %#x", step.reg)
		}
	}

	s.clk.Sleep(powerOnDelay)
	if err := handle.WriteByteData(ctx, RegEnable, EnablePON|EnableAEN); err != nil {
		return errors.Wrap(err, "apds9960: cannot enable color engine")
	}
	s.logger.Debugw("apds9960 initialized", "gain", s.gain, "integration_time_ms", s.itime)
	return nil
}

// IsSampleReady reports whether the AVALID status bit is set.
func (s *Sensor) IsSampleReady(ctx context.Context) (bool, error) {
	handle, err := s.bus.OpenHandle(s.addr)
	if err != nil {
		return false, errors.Wrap(err, "apds9960: cannot open handle")
	}
	defer utils.UncheckedErrorFunc(handle.Close)

	status, err := handle.ReadByteData(ctx, RegStatus)
	if err != nil {
		return false, errors.Wrap(err, "apds9960: cannot read status")
	}
	return status&StatusAValid != 0, nil
}

// ReadSample reads the clear, red, green and blue data registers in one block.
func (s *Sensor) ReadSample(ctx context.Context) (colorsensor.Sample, error) {
	handle, err := s.bus.OpenHandle(s.addr)
	if err != nil {
		return colorsensor.Sample{}, errors.Wrap(err, "apds9960: cannot open handle")
	}
	defer utils.UncheckedErrorFunc(handle.Close)

	buf, err := handle.ReadBlockData(ctx, RegCDataL, sampleLen)
	if err != nil {
		return colorsensor.Sample{}, errors.Wrap(err, "apds9960: cannot read color data")
	}
	if len(buf) != sampleLen {
		return colorsensor.Sample{}, errors.Errorf("apds9960: expected %d bytes of color data, got %d", sampleLen, len(buf))
	}
	return DecodeSample(buf), nil
}

// DecodeSample decodes the little-endian CDATA, RDATA, GDATA, BDATA block.
func DecodeSample(buf []byte) colorsensor.Sample {
	return colorsensor.Sample{
		Clear: binary.LittleEndian.Uint16(buf[0:2]),
		Red:   binary.LittleEndian.Uint16(buf[2:4]),
		Green: binary.LittleEndian.Uint16(buf[4:6]),
		Blue:  binary.LittleEndian.Uint16(buf[6:8]),
	}
}

// EncodeSample is the inverse of DecodeSample.
func EncodeSample(sample colorsensor.Sample) []byte {
	buf := make([]byte, sampleLen)
	binary.LittleEndian.PutUint16(buf[0:2], sample.Clear)
	binary.LittleEndian.PutUint16(buf[2:4], sample.Red)
	binary.LittleEndian.PutUint16(buf[4:6], sample.Green)
	binary.LittleEndian.PutUint16(buf[6:8], sample.Blue)
	return buf
}
