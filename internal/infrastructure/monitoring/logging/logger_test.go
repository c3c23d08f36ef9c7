package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedLogger builds a Logger backed by an in-memory observer core so
// tests can assert on emitted entries.
func newObservedLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_DefaultsApplied(t *testing.T) {
	// Empty config must still produce a working logger (info/json/stdout).
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestLogger_EmitsAtAllLevels(t *testing.T) {
	l, logs := newObservedLogger()

	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestLogger_FieldConversion(t *testing.T) {
	l, logs := newObservedLogger()

	l.Info("typed fields",
		String("s", "v"),
		Int("i", 7),
		Int64("i64", 9),
		Float64("f", 1.5),
		Bool("b", true),
		Duration("d", 2*time.Second),
		Err(errors.New("boom")),
		Any("any", []int{1, 2}),
	)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "v", ctx["s"])
	assert.Equal(t, int64(7), ctx["i"])
	assert.Equal(t, true, ctx["b"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestErr_NilError(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestLogger_WithAttachesFields(t *testing.T) {
	l, logs := newObservedLogger()

	child := l.With(String("case_id", "100"))
	child.Info("reconciled")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "100", logs.All()[0].ContextMap()["case_id"])
}

func TestLogger_NamedAppendsName(t *testing.T) {
	l, logs := newObservedLogger()

	l.Named("scheduler").Info("msg")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "scheduler", logs.All()[0].LoggerName)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
}

func TestSetDefault_ReplacesProcessLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newObservedLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	// nil must be ignored, not installed.
	SetDefault(nil)
	assert.Equal(t, l, Default())
}

//Personal.AI order the ending
