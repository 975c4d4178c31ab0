package config

import (
	"encoding/json"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/mazebot/sensorctl/components/board"
)

func TestReadJSON(t *testing.T) {
	cfg, err := Read("../etc/configs/fake.json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Board.Model, test.ShouldEqual, board.ModelFake)
	test.That(t, cfg.Board.Fake.ColorSamples, test.ShouldHaveLength, 4)
	test.That(t, cfg.Board.Fake.ColorSamples[3].NotReady, test.ShouldBeTrue)
	test.That(t, cfg.ColorSensors, test.ShouldHaveLength, 4)
	test.That(t, cfg.Adjacency(), test.ShouldResemble, [][]int{{1}, {0, 2}, {1}})

	conf, err := cfg.ColorSensors[2].APDS9960()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.Gain, test.ShouldEqual, 16)
}

func TestReadYAML(t *testing.T) {
	t.Setenv("SENSORCTL_LOG_DIR", "/var/log")
	cfg, err := Read("../etc/configs/robot.yaml")
	test.That(t, err, test.ShouldBeNil)

	test.That(t, cfg.Board.Model, test.ShouldEqual, board.ModelLinux)
	test.That(t, cfg.Board.I2Cs, test.ShouldResemble, []board.I2CConfig{{Name: "sensors", Bus: "1"}})
	test.That(t, cfg.Mux.Address, test.ShouldEqual, 0x70)
	test.That(t, cfg.ColorSensorsByRole(RoleTreasure), test.ShouldHaveLength, 2)
	test.That(t, cfg.Log.File, test.ShouldEqual, "/var/log/sensorctl.log")
	test.That(t, cfg.Log.Patterns[0].Pattern, test.ShouldEqual, "sensorctl.wallscan")

	conf, err := cfg.ColorSensors[2].APDS9960()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.Gain, test.ShouldEqual, 16)
	test.That(t, conf.IntegrationTimeMs, test.ShouldEqual, 100.0)
}

func TestFromReaderMatchesAcrossFormats(t *testing.T) {
	md, err := json.Marshal(Default())
	test.That(t, err, test.ShouldBeNil)
	fromJSON, err := FromReader(FormatJSON, strings.NewReader(string(md)))
	test.That(t, err, test.ShouldBeNil)

	fromYAML, err := FromReader(FormatYAML, strings.NewReader(`
board: {model: linux, i2cs: [{name: sensors, bus: "1"}]}
mux: {i2c_bus: sensors, address: 112}
color_sensors:
  - {name: floor-left, role: floor, channel: 0}
  - {name: floor-right, role: floor, channel: 1}
  - {name: treasure-left, role: treasure, channel: 2}
  - {name: treasure-right, role: treasure, channel: 3}
distance_sensors:
  - {node: 0, trigger_pin: GPIO5, echo_pin: GPIO6, neighbors: [1]}
  - {node: 1, trigger_pin: GPIO13, echo_pin: GPIO19, neighbors: [0, 2]}
  - {node: 2, trigger_pin: GPIO20, echo_pin: GPIO21, neighbors: [1]}
wall_scan: {root: 0}
thresholds:
  floor: {black: 100, red: 200, green: 200, blue: 200}
  treasure: {cyan: 200, green: 200, black: 100}
`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fromYAML, test.ShouldResemble, fromJSON)
}

func TestFromReaderJSON5(t *testing.T) {
	cfg, err := FromReader(FormatJSON5, strings.NewReader(`{
  // bench rig: one floor sensor, one distance sensor
  board: {model: "fake", i2cs: [{name: "sensors", bus: "1"}]},
  mux: {i2c_bus: "sensors"},
  color_sensors: [
    {name: "floor", role: "floor", channel: 5, attributes: {gain: 64}}
  ],
  distance_sensors: [{node: 0, trigger_pin: "GPIO5", echo_pin: "GPIO6", timeout_ms: 20, neighbors: []}],
  pacing: {settle_ms: 5}
}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ColorSensors[0].Channel, test.ShouldEqual, 5)
	test.That(t, cfg.DistanceSensors[0].TimeoutMs, test.ShouldEqual, uint(20))
	test.That(t, *cfg.Pacing.SettleMs, test.ShouldEqual, 5)

	conf, err := cfg.ColorSensors[0].APDS9960()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.Gain, test.ShouldEqual, 64)

	_, err = FromReader(FormatJSON5, strings.NewReader(`{bored: {}}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bored")
}

func TestFromReaderErrors(t *testing.T) {
	_, err := FromReader(FormatJSON, strings.NewReader(`{"bored": {}}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bored")

	_, err = FromReader(FormatYAML, strings.NewReader("bored: {}\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bored")

	_, err = FromReader(FormatYAML, strings.NewReader("board: [\n"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader("toml", strings.NewReader(""))
	test.That(t, err, test.ShouldNotBeNil)

	// Decodes, but fails validation.
	_, err = FromReader(FormatJSON, strings.NewReader(`{"board": {"model": "fake"}}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "i2c_bus")

	_, err = Read("does-not-exist.json")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFormatFromPath(t *testing.T) {
	test.That(t, FormatFromPath("a/b.yaml"), test.ShouldEqual, FormatYAML)
	test.That(t, FormatFromPath("b.YML"), test.ShouldEqual, FormatYAML)
	test.That(t, FormatFromPath("b.json"), test.ShouldEqual, FormatJSON)
	test.That(t, FormatFromPath("b.json5"), test.ShouldEqual, FormatJSON5)
	test.That(t, FormatFromPath("b"), test.ShouldEqual, FormatJSON)
}

func TestSchema(t *testing.T) {
	md, err := SchemaJSON()
	test.That(t, err, test.ShouldBeNil)
	for _, field := range []string{"color_sensors", "distance_sensors", "gate_failed_color_sensors", "settle_ms"} {
		test.That(t, string(md), test.ShouldContainSubstring, field)
	}
}
