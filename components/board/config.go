package board

import (
	"fmt"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Board models.
const (
	ModelLinux = "linux"
	ModelFake  = "fake"
)

// A Config describes the board the controller runs on and the buses it exposes.
type Config struct {
	Model string      `json:"model"`
	I2Cs  []I2CConfig `json:"i2cs,omitempty"`

	// UseIoctlGPIO switches pins from periph.io to the GPIO character device.
	UseIoctlGPIO bool   `json:"use_ioctl_gpio,omitempty"`
	GPIOChipDev  string `json:"gpio_chip_dev,omitempty"`

	Fake *FakeConfig `json:"fake,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (config *Config) Validate(path string) error {
	switch config.Model {
	case ModelLinux, ModelFake:
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "model")
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown board model %q", config.Model))
	}
	for idx, conf := range config.I2Cs {
		if err := conf.Validate(fmt.Sprintf("%s.%s.%d", path, "i2cs", idx)); err != nil {
			return err
		}
	}
	if config.UseIoctlGPIO && config.GPIOChipDev == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "gpio_chip_dev")
	}
	return nil
}

// I2CConfig enumerates a specific, shareable I2C bus.
type I2CConfig struct {
	Name string `json:"name"`
	Bus  string `json:"bus"`
}

// Validate ensures all parts of the config are valid.
func (config *I2CConfig) Validate(path string) error {
	if config.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if config.Bus == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "bus")
	}
	return nil
}

// FakeConfig scripts what a fake board's sensors report.
type FakeConfig struct {
	ColorSamples []FakeColorSample `json:"color_samples,omitempty"`
	EchoWidths   []FakeEchoWidth   `json:"echo_widths,omitempty"`
}

// FakeColorSample is the raw sample a simulated color sensor on Channel reports.
type FakeColorSample struct {
	Channel  int    `json:"channel"`
	Red      uint16 `json:"red"`
	Green    uint16 `json:"green"`
	Blue     uint16 `json:"blue"`
	Clear    uint16 `json:"clear"`
	NotReady bool   `json:"not_ready,omitempty"`
}

// FakeEchoWidth is the echo pulse a simulated line reports.
type FakeEchoWidth struct {
	Pin     string `json:"pin"`
	WidthUs int    `json:"width_us"`
}
