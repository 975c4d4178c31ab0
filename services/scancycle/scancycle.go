// Package scancycle sequences the robot's sensing. One cycle is a floor scan over the floor color
// sensors, then a treasure scan over the treasure color sensors, then one wall scan. Color sensors
// are read one at a time through the shared bus multiplexer, with a settle pause after each.
package scancycle

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/mazebot/sensorctl/colorclass"
	"github.com/mazebot/sensorctl/components/colorsensor"
	"github.com/mazebot/sensorctl/components/mux"
	"github.com/mazebot/sensorctl/logging"
	"github.com/mazebot/sensorctl/services/wallscan"
)

// Stock pacing.
const (
	DefaultSettle     = 100 * time.Millisecond
	DefaultCyclePause = 1000 * time.Millisecond
)

// A ColorChannel is a color sensor and the multiplexer channel it sits on.
type ColorChannel struct {
	// Index names the sensor in logs and reports.
	Index   int
	Channel int
	Sensor  colorsensor.ColorSensor
	// InitErr is the error the sensor's startup initialization failed with, if any.
	InitErr error
}

// A WallScanner reads the distance sensor network once.
type WallScanner interface {
	Scan(ctx context.Context) []wallscan.Reading
}

// Options tune a cycle.
type Options struct {
	// Settle is paused after each color channel is attempted.
	Settle time.Duration
	// CyclePause is paused between cycles by Run.
	CyclePause time.Duration
	// GateFailedSensors skips color sensors whose initialization failed instead of polling them.
	GateFailedSensors bool
}

// FloorResult is one classified floor sample.
type FloorResult struct {
	Index   int                   `json:"index"`
	Channel int                   `json:"channel"`
	Sample  colorsensor.Sample    `json:"sample"`
	Color   colorclass.FloorColor `json:"color"`
}

// TreasureResult is one classified treasure sample.
type TreasureResult struct {
	Index   int                      `json:"index"`
	Channel int                      `json:"channel"`
	Sample  colorsensor.Sample       `json:"sample"`
	Color   colorclass.TreasureColor `json:"color"`
}

// A Report is everything one cycle observed. Sensors skipped this cycle have no entry.
type Report struct {
	Cycle    int                `json:"cycle"`
	Floor    []FloorResult      `json:"floor"`
	Treasure []TreasureResult   `json:"treasure"`
	Wall     []wallscan.Reading `json:"wall"`
}

// An Orchestrator runs scan cycles.
type Orchestrator struct {
	mux        mux.Multiplexer
	floor      []ColorChannel
	treasure   []ColorChannel
	classifier *colorclass.Classifier
	scanner    WallScanner
	opts       Options
	clk        clock.Clock
	logger     logging.Logger

	cycle int
}

// New returns an orchestrator over the given sensors. The channel lists are read in order.
func New(
	m mux.Multiplexer,
	floor, treasure []ColorChannel,
	classifier *colorclass.Classifier,
	scanner WallScanner,
	opts Options,
	clk clock.Clock,
	logger logging.Logger,
) *Orchestrator {
	return &Orchestrator{
		mux:        m,
		floor:      floor,
		treasure:   treasure,
		classifier: classifier,
		scanner:    scanner,
		opts:       opts,
		clk:        clk,
		logger:     logger,
	}
}

// RunCycle performs one floor scan, one treasure scan and one wall scan, in that order. Once
// started a cycle runs to the end; only a context that is already done stops it from starting.
func (o *Orchestrator) RunCycle(ctx context.Context) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	o.cycle++
	report := Report{Cycle: o.cycle}
	report.Floor = o.FloorScan(ctx)
	report.Treasure = o.TreasureScan(ctx)
	report.Wall = o.scanner.Scan(ctx)
	return report, nil
}

// Run performs cycles separated by the cycle pause until ctx is done. onReport, if not nil, is
// handed each cycle's report.
func (o *Orchestrator) Run(ctx context.Context, onReport func(Report)) error {
	for {
		report, err := o.RunCycle(ctx)
		if err != nil {
			return err
		}
		if onReport != nil {
			onReport(report)
		}
		if !o.pause(ctx, o.opts.CyclePause) {
			return ctx.Err()
		}
	}
}

// FloorScan reads and classifies every floor sensor.
func (o *Orchestrator) FloorScan(ctx context.Context) []FloorResult {
	var results []FloorResult
	for _, ch := range o.floor {
		if sample, ok := o.read(ctx, "floor", ch); ok {
			color := o.classifier.Floor(int(sample.Red), int(sample.Green), int(sample.Blue))
			o.logger.Infow("floor", "sensor", ch.Index, "color", color.String())
			results = append(results, FloorResult{Index: ch.Index, Channel: ch.Channel, Sample: sample, Color: color})
		}
		o.pause(ctx, o.opts.Settle)
	}
	o.logger.Infow("floor scan complete", "read", len(results), "sensors", len(o.floor))
	return results
}

// TreasureScan reads and classifies every treasure sensor.
func (o *Orchestrator) TreasureScan(ctx context.Context) []TreasureResult {
	var results []TreasureResult
	for _, ch := range o.treasure {
		if sample, ok := o.read(ctx, "treasure", ch); ok {
			color := o.classifier.Treasure(int(sample.Red), int(sample.Green), int(sample.Blue))
			o.logger.Infow("treasure", "sensor", ch.Index, "color", color.String())
			results = append(results, TreasureResult{Index: ch.Index, Channel: ch.Channel, Sample: sample, Color: color})
		}
		o.pause(ctx, o.opts.Settle)
	}
	o.logger.Infow("treasure scan complete", "read", len(results), "sensors", len(o.treasure))
	return results
}

// read selects ch and, if a sample is waiting, reads it before anyone else can select. Skipped
// and failed reads report false and are not retried.
func (o *Orchestrator) read(ctx context.Context, phase string, ch ColorChannel) (colorsensor.Sample, bool) {
	if ch.InitErr != nil && o.opts.GateFailedSensors {
		o.logger.CDebugw(ctx, "skipping sensor that failed to initialize", "phase", phase, "sensor", ch.Index)
		return colorsensor.Sample{}, false
	}

	var (
		sample colorsensor.Sample
		ready  bool
	)
	err := o.mux.WithChannel(ctx, ch.Channel, func(ctx context.Context) error {
		var err error
		ready, err = ch.Sensor.IsSampleReady(ctx)
		if err != nil || !ready {
			return err
		}
		sample, err = ch.Sensor.ReadSample(ctx)
		return err
	})
	if err != nil {
		o.logger.Warnw("color read failed", "phase", phase, "sensor", ch.Index, "channel", ch.Channel, "error", err)
		return colorsensor.Sample{}, false
	}
	if !ready {
		o.logger.CDebugw(ctx, "sample not ready", "phase", phase, "sensor", ch.Index)
		return colorsensor.Sample{}, false
	}
	o.logger.CDebugw(ctx, "sample", "phase", phase, "sensor", ch.Index,
		"r", sample.Red, "g", sample.Green, "b", sample.Blue, "c", sample.Clear, "hex", sample.Color().Hex())
	return sample, true
}

// pause waits d or until ctx is done, reporting whether the full wait elapsed.
func (o *Orchestrator) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := o.clk.Timer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
