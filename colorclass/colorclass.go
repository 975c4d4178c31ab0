// Package colorclass maps raw red, green and blue intensities to the small set of colors the robot
// cares about. There are two independent domains: floor markings and treasure markings. Each is a
// short ordered list of threshold rules where the first match wins and every comparison is strict,
// so a channel sitting exactly on a threshold never satisfies that rule.
package colorclass

// FloorColor is the category of a floor marking.
type FloorColor int

// Floor categories. FloorUnknown is the sentinel for a sample no rule matched.
const (
	FloorBlack FloorColor = iota
	FloorRed
	FloorGreen
	FloorYellow
	FloorBlue
	FloorUnknown
)

func (c FloorColor) String() string {
	switch c {
	case FloorBlack:
		return "Black"
	case FloorRed:
		return "Red"
	case FloorGreen:
		return "Green"
	case FloorYellow:
		return "Yellow"
	case FloorBlue:
		return "Blue"
	case FloorUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// MarshalText renders the category by name.
func (c FloorColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// TreasureColor is the category of a treasure marking.
type TreasureColor int

// Treasure categories. TreasureInvalid is the sentinel for a sample no rule matched.
const (
	TreasureCyan TreasureColor = iota
	TreasureGreen
	TreasureBlack
	TreasureInvalid
)

func (c TreasureColor) String() string {
	switch c {
	case TreasureCyan:
		return "Cyan"
	case TreasureGreen:
		return "Green"
	case TreasureBlack:
		return "Black"
	case TreasureInvalid:
		return "Invalid"
	default:
		return "Invalid"
	}
}

// MarshalText renders the category by name.
func (c TreasureColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// FloorThresholds are the cutoffs of the floor rules.
type FloorThresholds struct {
	Black int `json:"black"`
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
}

// TreasureThresholds are the cutoffs of the treasure rules.
type TreasureThresholds struct {
	Cyan  int `json:"cyan"`
	Green int `json:"green"`
	Black int `json:"black"`
}

// DefaultFloorThresholds are the stock floor cutoffs.
var DefaultFloorThresholds = FloorThresholds{Black: 100, Red: 200, Green: 200, Blue: 200}

// DefaultTreasureThresholds are the stock treasure cutoffs.
var DefaultTreasureThresholds = TreasureThresholds{Cyan: 200, Green: 200, Black: 100}

// A Classifier classifies samples in both domains with a fixed set of thresholds.
type Classifier struct {
	floor    FloorThresholds
	treasure TreasureThresholds
}

// NewClassifier returns a classifier using the given cutoffs as they are. A zero cutoff is a real
// cutoff: no channel is below 0, so a zero Black disables every rule that needs a dark channel.
func NewClassifier(floor FloorThresholds, treasure TreasureThresholds) *Classifier {
	return &Classifier{floor: floor, treasure: treasure}
}

// Floor classifies a floor sample.
func (c *Classifier) Floor(r, g, b int) FloorColor {
	t := c.floor
	switch {
	case r < t.Black && g < t.Black && b < t.Black:
		return FloorBlack
	case r > t.Red && g < t.Black && b < t.Black:
		return FloorRed
	case r < t.Black && g > t.Green && b < t.Black:
		return FloorGreen
	case r > t.Red && g > t.Green && b < t.Black:
		return FloorYellow
	case r < t.Black && g < t.Black && b > t.Blue:
		return FloorBlue
	default:
		return FloorUnknown
	}
}

// Treasure classifies a treasure sample.
func (c *Classifier) Treasure(r, g, b int) TreasureColor {
	t := c.treasure
	switch {
	case g > t.Cyan && b > t.Cyan && r < t.Black:
		return TreasureCyan
	case g > t.Green && b < t.Black && r < t.Black:
		return TreasureGreen
	case g < t.Black && b < t.Black && r < t.Black:
		return TreasureBlack
	default:
		return TreasureInvalid
	}
}

var defaultClassifier = NewClassifier(DefaultFloorThresholds, DefaultTreasureThresholds)

// ClassifyFloor classifies a floor sample with the stock thresholds.
func ClassifyFloor(r, g, b int) FloorColor {
	return defaultClassifier.Floor(r, g, b)
}

// ClassifyTreasure classifies a treasure sample with the stock thresholds.
func ClassifyTreasure(r, g, b int) TreasureColor {
	return defaultClassifier.Treasure(r, g, b)
}
