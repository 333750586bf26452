package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewLogger(LogConfig{Level: "debug", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	l.Named("http").Info("request served", String("path", "/"), Int("status", 200))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(raw)
	assert.Contains(t, line, `"msg":"request served"`)
	assert.Contains(t, line, `"logger":"http"`)
	assert.Contains(t, line, `"status":200`)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewLogger(LogConfig{Format: "console", OutputPaths: []string{path}})
	require.NoError(t, err)
	l.Info("hello")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "hello")
	assert.False(t, strings.HasPrefix(string(raw), "{"))
}

func TestNewWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(LogConfig{Level: "warn", Format: "console"}, &buf)

	l.Info("hidden")
	l.Warn("shown", String("key", "value"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "value")

	assert.True(t, SetLevel(l, "info"))
	l.Info("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestNewLogger_InvalidOutputPath(t *testing.T) {
	_, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/x/y.log"}})
	assert.Error(t, err)
}

func TestSetLevel_AppliesToDerivedLoggers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewLogger(LogConfig{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)
	child := l.With(String("component", "form"))

	child.Debug("hidden")
	require.True(t, SetLevel(l, "debug"))
	child.Debug("visible")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hidden")
	assert.Contains(t, string(raw), "visible")
}

func TestSetLevel_NopLoggerUnsupported(t *testing.T) {
	assert.False(t, SetLevel(NewNopLogger(), "debug"))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"Warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestFields_ConvertToZap(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	l.Debug("fields",
		String("s", "v"), Int("i", 1), Int64("i64", 2), Float64("f", 1.5),
		Bool("b", true), Duration("d", time.Second), Err(errors.New("boom")),
		Any("any", []string{"x"}))

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "v", ctx["s"])
	assert.Equal(t, int64(1), ctx["i"])
	assert.Equal(t, int64(2), ctx["i64"])
	assert.Equal(t, 1.5, ctx["f"])
	assert.Equal(t, true, ctx["b"])
	assert.Equal(t, time.Second, ctx["d"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestWithAndNamed(t *testing.T) {
	l, logs := newObserved(zapcore.InfoLevel)
	l.Named("session").With(String("session_id", "abc")).Warn("evicted")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "session", entry.LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "abc", entry.ContextMap()["session_id"])
}

func TestNopLogger(t *testing.T) {
	n := NewNopLogger()
	assert.NotPanics(t, func() {
		n.Debug("x")
		n.Info("x")
		n.Warn("x")
		n.Error("x")
		n.With(String("k", "v")).Named("y").Info("z")
	})
}

func TestDefault(t *testing.T) {
	orig := Default()
	t.Cleanup(func() { SetDefault(orig) })

	l, _ := newObserved(zapcore.InfoLevel)
	SetDefault(nil)
	assert.Equal(t, orig, Default())
	SetDefault(l)
	assert.Equal(t, l, Default())
}

func TestPrintf(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	p := NewPrintf(l)
	p.Debugf("a=%d", 1)
	p.Infof("b=%s", "x")
	p.Errorf("c=%v", true)

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "a=1", logs.All()[0].Message)
	assert.Equal(t, zapcore.InfoLevel, logs.All()[1].Level)
	assert.Equal(t, "c=true", logs.All()[2].Message)

	assert.NotPanics(t, func() { NewPrintf(nil).Infof("dropped") })
}
