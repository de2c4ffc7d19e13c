package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"panic": zapcore.PanicLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	got, ok := ParseLogLevel("  WARN ")
	require.True(t, ok)
	require.Equal(t, zapcore.WarnLevel, got)

	_, ok = ParseLogLevel("unknown")
	require.False(t, ok)

	_, ok = ParseLogLevel("")
	require.False(t, ok)
}

// TestContextHelpers verifies that names and key-values travel with the context.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "classifier")
	ctx = WithKV(ctx, "release_version", "v2.0")

	InfoKV(ctx, "Asset decided", "asset", "ExampleActor:Hat")
	WarnKV(ctx, "Range never matches", "range", "v3.0..v2.0")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "classifier", entries[0].LoggerName)
	require.Equal(t, "Asset decided", entries[0].Message)
	require.Equal(t, "v2.0", entries[0].ContextMap()["release_version"])
	require.Equal(t, "ExampleActor:Hat", entries[0].ContextMap()["asset"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, global, FromContext(context.Background()))
}

// TestWithLevel lowers the level of a derived logger without touching the original.
func TestWithLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core).Sugar()
	traced := base.WithOptions(WithLevel(zapcore.DebugLevel)).With("hook", "load")

	base.Debug("dropped")
	traced.Debug("kept")
	traced.Info("kept too")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "kept", entries[0].Message)
	require.Equal(t, "load", entries[0].ContextMap()["hook"])
	require.Equal(t, zapcore.InfoLevel, entries[1].Level)
}

// TestNewWithSink writes console lines with the logger name, message and fields to the sink.
func TestNewWithSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := ToContext(context.Background(), NewWithSink(zapcore.AddSync(&buf), zapcore.InfoLevel))
	ctx = WithName(ctx, "plugins")
	ctx = WithFields(ctx, zap.String("release_version", "v2.0"))

	DebugKV(ctx, "Hidden below info")
	InfoKV(ctx, "Enabled plugin", "plugin", "Hats")

	out := buf.String()
	require.NotContains(t, out, "Hidden below info")
	require.Contains(t, out, "INFO")
	require.Contains(t, out, "plugins")
	require.Contains(t, out, "Enabled plugin")
	require.Contains(t, out, "release_version")
	require.Contains(t, out, "v2.0")
	require.Contains(t, out, "Hats")
	require.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}
