// Package config defines the structures that configure the sensor controller: the board and bus
// it runs on, which multiplexer channels carry floor and treasure color sensors, the distance
// sensor graph, classification thresholds, pacing and logging. A Config is read once at startup
// and not changed afterwards.
package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/utils"

	"github.com/mazebot/sensorctl/colorclass"
	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/components/colorsensor/apds9960"
	"github.com/mazebot/sensorctl/components/mux"
	"github.com/mazebot/sensorctl/components/sensor/ultrasonic"
	"github.com/mazebot/sensorctl/logging"
	"github.com/mazebot/sensorctl/services/scancycle"
	"github.com/mazebot/sensorctl/services/wallscan"
)

// Color sensor roles.
const (
	RoleFloor    = "floor"
	RoleTreasure = "treasure"
)

// ModelAPDS9960 is the only color sensor model, and the default.
const ModelAPDS9960 = "apds9960"

// A Config describes the robot's sensors and how to drive them.
type Config struct {
	Board           board.Config           `json:"board"`
	Mux             MuxConfig              `json:"mux"`
	ColorSensors    []ColorSensorConfig    `json:"color_sensors"`
	DistanceSensors []DistanceSensorConfig `json:"distance_sensors"`
	WallScan        WallScanConfig         `json:"wall_scan"`
	Thresholds      ThresholdsConfig       `json:"thresholds"`
	Pacing          PacingConfig           `json:"pacing"`
	Log             LogConfig              `json:"log"`

	// GateFailedColorSensors stops polling color sensors whose initialization failed. By default
	// they are polled every cycle regardless.
	GateFailedColorSensors bool `json:"gate_failed_color_sensors,omitempty"`
}

// MuxConfig locates the bus multiplexer.
type MuxConfig struct {
	I2CBus  string `json:"i2c_bus"`
	Address int    `json:"address,omitempty"`
}

// A ColorSensorConfig places a color sensor on a multiplexer channel.
type ColorSensorConfig struct {
	Name       string       `json:"name"`
	Role       string       `json:"role"`
	Channel    int          `json:"channel"`
	Model      string       `json:"model,omitempty"`
	Attributes AttributeMap `json:"attributes,omitempty"`
}

// A DistanceSensorConfig is one node of the wall scan graph.
type DistanceSensorConfig struct {
	Node       int    `json:"node"`
	TriggerPin string `json:"trigger_pin"`
	EchoPin    string `json:"echo_pin"`
	TimeoutMs  uint   `json:"timeout_ms,omitempty"`
	Neighbors  []int  `json:"neighbors"`
}

// WallScanConfig configures the wall scan traversal.
type WallScanConfig struct {
	Root int `json:"root"`
}

// ThresholdsConfig holds the classification cutoffs. An omitted cutoff keeps its stock value;
// an explicit 0 is used as is.
type ThresholdsConfig struct {
	Floor    FloorThresholdsConfig    `json:"floor,omitempty"`
	Treasure TreasureThresholdsConfig `json:"treasure,omitempty"`
}

// FloorThresholdsConfig overrides the stock floor cutoffs.
type FloorThresholdsConfig struct {
	Black *int `json:"black,omitempty"`
	Red   *int `json:"red,omitempty"`
	Green *int `json:"green,omitempty"`
	Blue  *int `json:"blue,omitempty"`
}

// TreasureThresholdsConfig overrides the stock treasure cutoffs.
type TreasureThresholdsConfig struct {
	Cyan  *int `json:"cyan,omitempty"`
	Green *int `json:"green,omitempty"`
	Black *int `json:"black,omitempty"`
}

// PacingConfig holds the pauses of a cycle. An omitted pause keeps its stock value; an explicit 0
// disables it.
type PacingConfig struct {
	SettleMs     *int `json:"settle_ms,omitempty"`
	CyclePauseMs *int `json:"cycle_pause_ms,omitempty"`
}

// LogConfig configures where logs go and how verbose each logger is.
type LogConfig struct {
	Level      string                        `json:"level,omitempty"`
	File       string                        `json:"file,omitempty"`
	SerialPort string                        `json:"serial_port,omitempty"`
	SerialBaud int                           `json:"serial_baud,omitempty"`
	Patterns   []logging.LoggerPatternConfig `json:"patterns,omitempty"`
}

// Settle returns the pause after each color channel.
func (p PacingConfig) Settle() time.Duration {
	return msOr(p.SettleMs, scancycle.DefaultSettle)
}

// CyclePause returns the pause between cycles.
func (p PacingConfig) CyclePause() time.Duration {
	return msOr(p.CyclePauseMs, scancycle.DefaultCyclePause)
}

func msOr(ms *int, stock time.Duration) time.Duration {
	if ms == nil {
		return stock
	}
	return time.Duration(*ms) * time.Millisecond
}

// FloorThresholds returns the floor cutoffs with omitted ones at their stock values.
func (t ThresholdsConfig) FloorThresholds() colorclass.FloorThresholds {
	stock := colorclass.DefaultFloorThresholds
	f := t.Floor
	return colorclass.FloorThresholds{
		Black: lo.FromPtrOr(f.Black, stock.Black),
		Red:   lo.FromPtrOr(f.Red, stock.Red),
		Green: lo.FromPtrOr(f.Green, stock.Green),
		Blue:  lo.FromPtrOr(f.Blue, stock.Blue),
	}
}

// TreasureThresholds returns the treasure cutoffs with omitted ones at their stock values.
func (t ThresholdsConfig) TreasureThresholds() colorclass.TreasureThresholds {
	stock := colorclass.DefaultTreasureThresholds
	tr := t.Treasure
	return colorclass.TreasureThresholds{
		Cyan:  lo.FromPtrOr(tr.Cyan, stock.Cyan),
		Green: lo.FromPtrOr(tr.Green, stock.Green),
		Black: lo.FromPtrOr(tr.Black, stock.Black),
	}
}

// ColorSensorsByRole returns the color sensors with the given role, in configuration order.
func (c *Config) ColorSensorsByRole(role string) []ColorSensorConfig {
	return lo.Filter(c.ColorSensors, func(s ColorSensorConfig, _ int) bool {
		return s.Role == role
	})
}

// Adjacency returns the distance sensor graph's neighbor lists, indexed by node.
func (c *Config) Adjacency() [][]int {
	adj := make([][]int, len(c.DistanceSensors))
	for _, ds := range c.DistanceSensors {
		if ds.Node >= 0 && ds.Node < len(adj) {
			adj[ds.Node] = ds.Neighbors
		}
	}
	return adj
}

// DistanceSensorsByNode returns the distance sensors ordered by node id.
func (c *Config) DistanceSensorsByNode() []DistanceSensorConfig {
	out := make([]DistanceSensorConfig, len(c.DistanceSensors))
	for _, ds := range c.DistanceSensors {
		if ds.Node >= 0 && ds.Node < len(out) {
			out[ds.Node] = ds
		}
	}
	return out
}

// APDS9960 decodes the sensor's attributes into the driver's configuration.
func (s *ColorSensorConfig) APDS9960() (apds9960.Config, error) {
	var conf apds9960.Config
	if _, err := TransformAttributeMapToStruct(&conf, s.Attributes); err != nil {
		return apds9960.Config{}, err
	}
	return conf, nil
}

// Ultrasonic returns the node's sensor configuration.
func (ds *DistanceSensorConfig) Ultrasonic() *ultrasonic.Config {
	return &ultrasonic.Config{TriggerPin: ds.TriggerPin, EchoPin: ds.EchoPin, TimeoutMs: ds.TimeoutMs}
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {
	if err := c.Board.Validate("board"); err != nil {
		return err
	}
	if err := c.Mux.Validate("mux"); err != nil {
		return err
	}
	if !lo.ContainsBy(c.Board.I2Cs, func(i board.I2CConfig) bool { return i.Name == c.Mux.I2CBus }) {
		return utils.NewConfigValidationError("mux", errors.Errorf("board has no i2c bus named %q", c.Mux.I2CBus))
	}

	for idx, s := range c.ColorSensors {
		if err := s.Validate(fmt.Sprintf("%s.%d", "color_sensors", idx)); err != nil {
			return err
		}
	}
	channels := lo.Map(c.ColorSensors, func(s ColorSensorConfig, _ int) int { return s.Channel })
	if dups := lo.FindDuplicates(channels); len(dups) != 0 {
		return utils.NewConfigValidationError("color_sensors",
			errors.Errorf("channels %v are assigned to more than one color sensor", dups))
	}

	for idx, ds := range c.DistanceSensors {
		if err := ds.Validate(fmt.Sprintf("%s.%d", "distance_sensors", idx)); err != nil {
			return err
		}
	}
	nodes := lo.Map(c.DistanceSensors, func(ds DistanceSensorConfig, _ int) int { return ds.Node })
	if dups := lo.FindDuplicates(nodes); len(dups) != 0 {
		return utils.NewConfigValidationError("distance_sensors", errors.Errorf("nodes %v are listed more than once", dups))
	}
	for _, node := range nodes {
		if node >= len(nodes) {
			return utils.NewConfigValidationError("distance_sensors",
				errors.Errorf("node ids must run from 0 to %d, got %d", len(nodes)-1, node))
		}
	}
	if err := wallscan.NewGraph(c.Adjacency()).Validate(); err != nil {
		return utils.NewConfigValidationError("distance_sensors", err)
	}
	if len(nodes) > 0 && (c.WallScan.Root < 0 || c.WallScan.Root >= len(nodes)) {
		return utils.NewConfigValidationError("wall_scan", errors.Errorf("root %d is not a node", c.WallScan.Root))
	}

	if err := c.Thresholds.Validate("thresholds"); err != nil {
		return err
	}
	if lo.FromPtr(c.Pacing.SettleMs) < 0 || lo.FromPtr(c.Pacing.CyclePauseMs) < 0 {
		return utils.NewConfigValidationError("pacing", errors.New("pauses cannot be negative"))
	}
	return c.Log.Validate("log")
}

// Validate ensures all parts of the config are valid.
func (m *MuxConfig) Validate(path string) error {
	if m.I2CBus == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "i2c_bus")
	}
	if m.Address < 0 || m.Address > 0x7f {
		return utils.NewConfigValidationError(path, errors.Errorf("invalid address %#x", m.Address))
	}
	return nil
}

// Validate ensures all parts of the config are valid.
func (s *ColorSensorConfig) Validate(path string) error {
	if s.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if s.Role != RoleFloor && s.Role != RoleTreasure {
		return utils.NewConfigValidationError(path,
			errors.Errorf("role must be %q or %q, got %q", RoleFloor, RoleTreasure, s.Role))
	}
	if _, ok := mux.ControlByte(s.Channel); !ok {
		return utils.NewConfigValidationError(path,
			errors.Errorf("channel must be between 0 and %d, got %d", mux.MaxChannel, s.Channel))
	}
	if s.Model != "" && s.Model != ModelAPDS9960 {
		return utils.NewConfigValidationError(path, errors.Errorf("unknown color sensor model %q", s.Model))
	}
	conf, err := s.APDS9960()
	if err != nil {
		return utils.NewConfigValidationError(path+".attributes", err)
	}
	return conf.Validate(path + ".attributes")
}

// Validate ensures all parts of the config are valid.
func (ds *DistanceSensorConfig) Validate(path string) error {
	if ds.Node < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("node cannot be negative, got %d", ds.Node))
	}
	return ds.Ultrasonic().Validate(path)
}

// Validate ensures all parts of the config are valid.
func (t *ThresholdsConfig) Validate(path string) error {
	f, tr := t.FloorThresholds(), t.TreasureThresholds()
	for _, v := range []int{f.Black, f.Red, f.Green, f.Blue, tr.Cyan, tr.Green, tr.Black} {
		if v < 0 {
			return utils.NewConfigValidationError(path, errors.New("thresholds cannot be negative"))
		}
	}
	return nil
}

// Validate ensures all parts of the config are valid.
func (l *LogConfig) Validate(path string) error {
	if l.Level != "" {
		if _, err := logging.LevelFromString(l.Level); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	if l.SerialBaud < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("invalid serial_baud %d", l.SerialBaud))
	}
	for idx, p := range l.Patterns {
		if !logging.ValidatePattern(p.Pattern) {
			return utils.NewConfigValidationError(fmt.Sprintf("%s.patterns.%d", path, idx),
				errors.Errorf("invalid logger pattern %q", p.Pattern))
		}
		if _, err := logging.LevelFromString(p.Level); err != nil {
			return utils.NewConfigValidationError(fmt.Sprintf("%s.patterns.%d", path, idx), err)
		}
	}
	return nil
}
