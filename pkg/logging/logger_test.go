package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"verbose": LevelVerbose,
		"trace":   LevelVerbose,
		"DEBUG":   LevelDebug,
		" info ":  LevelInfo,
		"warning": LevelWarn,
		"Error":   LevelError,
		"":        LevelInfo,
		"loud":    LevelInfo,
	}
	for name, want := range tests {
		require.Equal(t, want, ParseLevel(name), name)
	}
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "LEVEL(9)", Level(9).String())
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var info, errs bytes.Buffer
	l := New(&info, &errs, LevelInfo, false)

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Warnf("careful")
	l.Errorf("broken: %v", "disk")

	require.NotContains(t, info.String(), "hidden")
	require.Contains(t, info.String(), "INFO: shown 2")
	require.Contains(t, errs.String(), "WARN: careful")
	require.Contains(t, errs.String(), "ERROR: broken: disk")
	require.NotContains(t, info.String(), "careful")

	l.SetLevel(LevelVerbose)
	require.True(t, l.Enabled(LevelDebug))
	l.Verbosef("trace line")
	require.Contains(t, info.String(), "VERBOSE: trace line")
}

func TestLoggerVerboseAddsCaller(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, &buf, LevelInfo, true)
	l.Infof("where am I")

	line := strings.TrimSpace(buf.String())
	require.Contains(t, line, "logger_test.go:")
	require.True(t, strings.HasSuffix(line, "INFO: where am I"))
}

func TestInitLogging(t *testing.T) {
	var buf bytes.Buffer
	std.SetOutput(&buf)
	defer func() {
		InitLogging(LevelInfo, false)
		std.info.SetOutput(stdout)
		std.err.SetOutput(stderr)
	}()

	InitLogging(LevelError, false)
	Warnf("dropped")
	Errorf("kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "ERROR: kept")
	require.Equal(t, LevelError, Default().Level())
}
