package logging

import (
	"context"

	"go.uber.org/zap"
	"go.viam.com/utils"
)

var _ utils.ZapCompatibleLogger = (*impl)(nil)

// Logger is a named, leveled logger. It satisfies go.viam.com/utils' ZapCompatibleLogger so it can
// be handed to utils.ContextualMain and the other utils helpers.
type Logger interface {
	ZapCompatibleLogger

	SetLevel(level Level)
	GetLevel() Level
	// Sublogger returns the logger named "<name>.<subname>", creating it at this logger's level.
	Sublogger(subname string) Logger
	// AddAppender adds an output to every logger sharing this logger's root.
	AddAppender(appender Appender)

	// The CDebug methods also log when ctx came from EnableDebugMode.
	CDebug(ctx context.Context, args ...interface{})
	CDebugf(ctx context.Context, template string, args ...interface{})
	CDebugw(ctx context.Context, msg string, keysAndValues ...interface{})
}

// ZapCompatibleLogger is the sugared zap method set that go.viam.com/utils expects of a logger.
type ZapCompatibleLogger interface {
	Desugar() *zap.Logger

	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})
}
