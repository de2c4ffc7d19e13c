package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// leveledCore lets entries through by its own level instead of the level of the core it wraps.
type leveledCore struct {
	zapcore.Core

	// enabler decides which entries reach the wrapped core.
	enabler zapcore.LevelEnabler
}

func (c *leveledCore) Enabled(lvl zapcore.Level) bool {
	return c.enabler.Enabled(lvl)
}

//nolint:gocritic // zapcore.Core fixes the signature.
func (c *leveledCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return checked
	}

	return checked.AddCore(entry, c)
}

//nolint:ireturn // zapcore.Core fixes the signature.
func (c *leveledCore) With(fields []zapcore.Field) zapcore.Core {
	return &leveledCore{
		Core:    c.Core.With(fields),
		enabler: c.enabler,
	}
}

// WithLevel derives a logger that emits entries at lvl and above, even below the level
// of the logger it is applied to. verify --trace uses it for hook calls.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &leveledCore{
			Core:    core,
			enabler: lvl,
		}
	})
}
