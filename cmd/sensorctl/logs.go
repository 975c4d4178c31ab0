package main

import (
	"io"

	"go.uber.org/multierr"

	"github.com/mazebot/sensorctl/config"
	"github.com/mazebot/sensorctl/logging"
)

const defaultSerialBaud = 115200

// setupLogging applies conf to logger: its level, a rotating log file, the serial debug port and
// per logger levels. The returned func closes the outputs it opened.
func setupLogging(logger logging.Logger, conf *config.LogConfig, debug bool) (func() error, error) {
	var closers []io.Closer
	closeAll := func() error {
		var err error
		for _, c := range closers {
			err = multierr.Combine(err, c.Close())
		}
		return err
	}

	if conf.File != "" {
		appender, closer := logging.NewFileAppender(conf.File)
		logger.AddAppender(appender)
		closers = append(closers, closer)
	}
	if conf.SerialPort != "" {
		baud := conf.SerialBaud
		if baud == 0 {
			baud = defaultSerialBaud
		}
		appender, closer, err := logging.NewSerialAppender(conf.SerialPort, baud)
		if err != nil {
			return nil, multierr.Combine(err, closeAll())
		}
		logger.AddAppender(appender)
		closers = append(closers, closer)
	}

	// Patterns reset unmatched loggers, so the base level goes on afterwards. Loggers created
	// later start at the base level and then take their pattern's.
	if len(conf.Patterns) != 0 {
		if err := logging.UpdateLevels(logger, conf.Patterns); err != nil {
			return nil, multierr.Combine(err, closeAll())
		}
	}
	switch {
	case debug:
		logger.SetLevel(logging.DEBUG)
	case conf.Level != "":
		level, err := logging.LevelFromString(conf.Level)
		if err != nil {
			return nil, multierr.Combine(err, closeAll())
		}
		logger.SetLevel(level)
	}
	return closeAll, nil
}
