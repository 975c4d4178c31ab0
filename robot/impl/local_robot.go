// Package robotimpl assembles a robot.Robot from a config: it opens the board, puts the
// multiplexer on the configured bus, initializes every color sensor behind it, grabs the distance
// sensor lines and hands them all to a scan cycle orchestrator.
package robotimpl

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/mazebot/sensorctl/colorclass"
	"github.com/mazebot/sensorctl/components/board"
	"github.com/mazebot/sensorctl/components/board/fake"
	"github.com/mazebot/sensorctl/components/board/genericlinux"
	"github.com/mazebot/sensorctl/components/colorsensor/apds9960"
	"github.com/mazebot/sensorctl/components/mux/tca9548a"
	"github.com/mazebot/sensorctl/components/sensor"
	"github.com/mazebot/sensorctl/components/sensor/ultrasonic"
	"github.com/mazebot/sensorctl/config"
	"github.com/mazebot/sensorctl/logging"
	"github.com/mazebot/sensorctl/robot"
	"github.com/mazebot/sensorctl/services/scancycle"
	"github.com/mazebot/sensorctl/services/wallscan"
)

var _ = robot.Robot(&localRobot{})

// localRobot satisfies robot.Robot and defers the cycle to its orchestrator.
type localRobot struct {
	config       *config.Config
	board        board.Board
	ownsBoard    bool
	mux          *tca9548a.Mux
	orchestrator *scancycle.Orchestrator
	logger       logging.Logger
}

// New returns a new robot built from cfg. cfg must already be validated.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ...Option) (robot.Robot, error) {
	var rOpts options
	for _, opt := range opts {
		opt.apply(&rOpts)
	}
	clk := rOpts.clk
	if clk == nil {
		clk = clock.New()
	}

	r := &localRobot{config: cfg, board: rOpts.board, logger: logger}
	if r.board == nil {
		b, err := newBoard(ctx, &cfg.Board, logger.Sublogger("board"))
		if err != nil {
			return nil, err
		}
		r.board = b
		r.ownsBoard = true
	}

	if err := r.build(ctx, clk); err != nil {
		return nil, multierr.Combine(err, r.Close(ctx))
	}
	return r, nil
}

func newBoard(ctx context.Context, conf *board.Config, logger logging.Logger) (board.Board, error) {
	switch conf.Model {
	case board.ModelFake:
		return fake.NewBoard(conf, logger)
	case board.ModelLinux:
		return genericlinux.NewBoard(ctx, conf, logger)
	default:
		return nil, errors.Errorf("unknown board model %q", conf.Model)
	}
}

func (r *localRobot) build(ctx context.Context, clk clock.Clock) error {
	cfg := r.config

	bus, ok := r.board.I2CByName(cfg.Mux.I2CBus)
	if !ok {
		return errors.Errorf("no i2c bus named %q for the multiplexer", cfg.Mux.I2CBus)
	}
	r.mux = tca9548a.New(bus, byte(cfg.Mux.Address), r.logger.Sublogger("mux"))

	floor, err := r.colorChannels(ctx, bus, config.RoleFloor, clk)
	if err != nil {
		return err
	}
	treasure, err := r.colorChannels(ctx, bus, config.RoleTreasure, clk)
	if err != nil {
		return err
	}

	nodes := cfg.DistanceSensorsByNode()
	sensors := make([]sensor.DistanceSensor, 0, len(nodes))
	for _, ds := range nodes {
		s, err := ultrasonic.NewSensor(
			ctx, r.board, fmt.Sprintf("node-%d", ds.Node), ds.Ultrasonic(), clk, r.logger.Sublogger("ultrasonic"))
		if err != nil {
			return err
		}
		sensors = append(sensors, s)
	}
	scanner, err := wallscan.NewScanner(
		wallscan.NewGraph(cfg.Adjacency()), cfg.WallScan.Root, sensors, r.logger.Sublogger("wallscan"))
	if err != nil {
		return err
	}

	r.orchestrator = scancycle.New(
		r.mux,
		floor,
		treasure,
		colorclass.NewClassifier(cfg.Thresholds.FloorThresholds(), cfg.Thresholds.TreasureThresholds()),
		scanner,
		scancycle.Options{
			Settle:            cfg.Pacing.Settle(),
			CyclePause:        cfg.Pacing.CyclePause(),
			GateFailedSensors: cfg.GateFailedColorSensors,
		},
		clk,
		r.logger.Sublogger("scancycle"),
	)
	return nil
}

// colorChannels builds and initializes the color sensors with the given role. A sensor that
// fails to initialize is logged and kept; the orchestrator decides whether to poll it.
func (r *localRobot) colorChannels(
	ctx context.Context,
	bus board.I2C,
	role string,
	clk clock.Clock,
) ([]scancycle.ColorChannel, error) {
	confs := r.config.ColorSensorsByRole(role)
	channels := make([]scancycle.ColorChannel, 0, len(confs))
	for idx, sc := range confs {
		conf, err := sc.APDS9960()
		if err != nil {
			return nil, errors.Wrapf(err, "color sensor %q", sc.Name)
		}
		s := apds9960.NewSensor(bus, conf, clk, r.logger.Sublogger("apds9960"))
		initErr := r.mux.WithChannel(ctx, sc.Channel, s.Init)
		if initErr != nil {
			r.logger.Errorw("color sensor failed to initialize",
				"name", sc.Name, "role", role, "channel", sc.Channel, "error", initErr)
		}
		channels = append(channels, scancycle.ColorChannel{
			Index:   idx,
			Channel: sc.Channel,
			Sensor:  s,
			InitErr: initErr,
		})
	}
	return channels, nil
}

// RunCycle performs one floor, treasure and wall scan.
func (r *localRobot) RunCycle(ctx context.Context) (scancycle.Report, error) {
	return r.orchestrator.RunCycle(ctx)
}

// Run performs cycles until ctx is done.
func (r *localRobot) Run(ctx context.Context, onReport func(scancycle.Report)) error {
	r.logger.Infow("scanning", "floor_sensors", len(r.config.ColorSensorsByRole(config.RoleFloor)),
		"treasure_sensors", len(r.config.ColorSensorsByRole(config.RoleTreasure)),
		"distance_sensors", len(r.config.DistanceSensors))
	return r.orchestrator.Run(ctx, onReport)
}

// Config returns the config the robot was built from.
func (r *localRobot) Config() *config.Config {
	return r.config
}

// Close closes the board if the robot built it.
func (r *localRobot) Close(ctx context.Context) error {
	if !r.ownsBoard || r.board == nil {
		return nil
	}
	return errors.Wrap(r.board.Close(ctx), "closing board")
}
