// Package robot defines the sensor controller a sensorctl process drives: a board, the
// multiplexed color sensors on its bus and the distance sensor graph, scanned in cycles.
package robot

import (
	"context"

	"github.com/mazebot/sensorctl/config"
	"github.com/mazebot/sensorctl/services/scancycle"
)

// A Robot encompasses every sensor a controller scans.
type Robot interface {
	// RunCycle performs one floor, treasure and wall scan.
	RunCycle(ctx context.Context) (scancycle.Report, error)

	// Run performs cycles until ctx is done, handing each report to onReport.
	Run(ctx context.Context, onReport func(scancycle.Report)) error

	// Config returns the config the robot was built from.
	Config() *config.Config

	// Close releases the board and every line grabbed from it.
	Close(ctx context.Context) error
}
