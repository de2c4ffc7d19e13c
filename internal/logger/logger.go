package logger

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// global serves contexts that carry no logger of their own.
	//nolint:gochecknoglobals // One logger serves the whole process.
	global *zap.SugaredLogger
	// level is the minimum level of the global logger, adjusted once the settings are read.
	//nolint:gochecknoglobals // Shared by global and every logger derived from it.
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() { //nolint:gochecknoinits // Packages log before the CLI has read the settings.
	global = New(level)
}

// New creates a console logger writing to stderr; stdout stays reserved for command results.
// A nil enabler follows the global level.
func New(enabler zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	return NewWithSink(zapcore.Lock(os.Stderr), enabler, options...)
}

// NewWithSink is New with an explicit destination.
func NewWithSink(sink zapcore.WriteSyncer, enabler zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	if enabler == nil {
		enabler = level
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoding()), sink, enabler)

	return zap.New(core, options...).Sugar()
}

//nolint:exhaustruct // Time and function keys stay off; build logs are timestamped by the CI runner.
func consoleEncoding() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		NameKey:          "logger",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: ", ",
	}
}

// ParseLogLevel converts a level name from settings or flags, ignoring case and surrounding spaces.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zapcore.InfoLevel, false
	}

	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, false
	}

	return lvl, true
}

// SetLevel changes the minimum level of the global logger.
func SetLevel(lvl zapcore.Level) {
	level.SetLevel(lvl)
}

// Debug logs args at debug level.
func Debug(ctx context.Context, args ...any) {
	FromContext(ctx).Debug(args...)
}

// Info logs args at info level.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// DebugKV logs message at debug level with key-value pairs.
func DebugKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Debugw(message, kvs...)
}

// InfoKV logs message at info level with key-value pairs.
func InfoKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Infow(message, kvs...)
}

// WarnKV logs message at warn level with key-value pairs.
func WarnKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Warnw(message, kvs...)
}

// ErrorKV logs message at error level with key-value pairs.
func ErrorKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Errorw(message, kvs...)
}
