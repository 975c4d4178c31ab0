// Package main is the sensorctl command: it loads a robot config and scans the robot's color and
// distance sensors in cycles.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/mazebot/sensorctl/config"
	"github.com/mazebot/sensorctl/logging"
	"github.com/mazebot/sensorctl/robot"
	robotimpl "github.com/mazebot/sensorctl/robot/impl"
)

const (
	// Flags.
	flagConfig = "config"
	flagDebug  = "debug"
	flagJSON   = "json"
)

var logger = logging.NewLogger("sensorctl")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	return newApp(os.Stdout, logger).RunContext(ctx, args)
}

func newApp(out io.Writer, logger logging.Logger) *cli.App {
	configFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:     flagConfig,
			Aliases:  []string{"c"},
			Usage:    "load configuration from `FILE`",
			Required: true,
		}
	}
	return &cli.App{
		Name:            "sensorctl",
		Usage:           "scan a robot's floor, treasure and wall sensors",
		HideHelpCommand: true,
		Writer:          out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "scan forever",
				Flags:  []cli.Flag{configFlag()},
				Action: func(c *cli.Context) error { return runAction(c, logger) },
			},
			{
				Name:  "once",
				Usage: "scan one cycle and print what was seen",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: flagJSON, Usage: "print the report as JSON"},
				},
				Action: func(c *cli.Context) error { return onceAction(c, logger) },
			},
			{
				Name:   "validate",
				Usage:  "check a config file",
				Flags:  []cli.Flag{configFlag()},
				Action: validateAction,
			},
			{
				Name:   "schema",
				Usage:  "print the config JSON schema",
				Action: schemaAction,
			},
		},
	}
}

// withRobot loads the config, sets up logging and builds the robot, closing everything after fn.
func withRobot(c *cli.Context, logger logging.Logger, fn func(r robot.Robot) error) (err error) {
	cfg, err := config.Read(c.String(flagConfig))
	if err != nil {
		return err
	}
	closeLogs, err := setupLogging(logger, &cfg.Log, c.Bool(flagDebug))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, closeLogs())
	}()

	r, err := robotimpl.New(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, r.Close(context.Background()))
	}()
	return fn(r)
}

func runAction(c *cli.Context, logger logging.Logger) error {
	return withRobot(c, logger, func(r robot.Robot) error {
		err := r.Run(c.Context, nil)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
}

func onceAction(c *cli.Context, logger logging.Logger) error {
	return withRobot(c, logger, func(r robot.Robot) error {
		// a single diagnostic cycle logs every raw sample whatever the configured level
		report, err := r.RunCycle(logging.EnableDebugMode(c.Context, "once"))
		if err != nil {
			return err
		}
		if c.Bool(flagJSON) {
			return writeReportJSON(c.App.Writer, report)
		}
		_, err = fmt.Fprintln(c.App.Writer, renderReport(report))
		return err
	})
}

func validateAction(c *cli.Context) error {
	path := c.String(flagConfig)
	cfg, err := config.Read(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "%s: ok (%d color sensors, %d distance sensors)\n",
		path, len(cfg.ColorSensors), len(cfg.DistanceSensors))
	return err
}

func schemaAction(c *cli.Context) error {
	out, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}
