package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/components/mux/tca9548a"
)

// DefaultI2CBus is the name the stock config gives the sensor bus.
const DefaultI2CBus = "sensors"

// Default returns the stock robot: two floor sensors on channels 0 and 1, two treasure sensors on
// channels 2 and 3, and three distance sensors in a line scanned from node 0.
func Default() *Config {
	return &Config{
		Board: board.Config{
			Model: board.ModelLinux,
			I2Cs:  []board.I2CConfig{{Name: DefaultI2CBus, Bus: "1"}},
		},
		Mux: MuxConfig{I2CBus: DefaultI2CBus, Address: tca9548a.DefaultAddress},
		ColorSensors: []ColorSensorConfig{
			{Name: "floor-left", Role: RoleFloor, Channel: 0},
			{Name: "floor-right", Role: RoleFloor, Channel: 1},
			{Name: "treasure-left", Role: RoleTreasure, Channel: 2},
			{Name: "treasure-right", Role: RoleTreasure, Channel: 3},
		},
		DistanceSensors: []DistanceSensorConfig{
			{Node: 0, TriggerPin: "GPIO5", EchoPin: "GPIO6", Neighbors: []int{1}},
			{Node: 1, TriggerPin: "GPIO13", EchoPin: "GPIO19", Neighbors: []int{0, 2}},
			{Node: 2, TriggerPin: "GPIO20", EchoPin: "GPIO21", Neighbors: []int{1}},
		},
		WallScan: WallScanConfig{Root: 0},
	}
}

// Schema returns the JSON schema of a config file.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}

// SchemaJSON returns the indented JSON schema of a config file.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
