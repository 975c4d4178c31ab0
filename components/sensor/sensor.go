// Package sensor defines the range-finding sensors placed at the nodes of the robot's wall scan.
package sensor

import (
	"context"
)

// A DistanceSensor measures the distance to the nearest object in front of it.
type DistanceSensor interface {
	// Distance returns the distance in centimeters. 0 means nothing answered within the
	// sensor's timeout.
	Distance(ctx context.Context) (float64, error)
}
