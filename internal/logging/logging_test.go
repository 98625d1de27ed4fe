package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv(DebugEnv, "")
	assert.False(t, DebugEnabled())

	t.Setenv(DebugEnv, "1")
	assert.True(t, DebugEnabled())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input       string
		expected    slog.Level
		expectError bool
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "INFO", expected: slog.LevelInfo},
		{input: "", expected: slog.LevelInfo},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "loud", expected: slog.LevelInfo, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer

	logger, err := New(Options{Level: "warn", Format: "json", Writer: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "owner", "u1")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "u1", entry["owner"])
}

func TestNew_DebugEnvOverridesLevel(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	var buf bytes.Buffer

	logger, err := New(Options{Level: "error", Format: "text", Writer: &buf})
	require.NoError(t, err)

	logger.Debug("poll revisions")
	assert.Contains(t, buf.String(), "poll revisions")
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestReport_WithoutToken(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "text", Writer: &buf})
	require.NoError(t, err)

	previous := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(previous)

	assert.False(t, ConfigureReporter(ReporterOptions{}))
	assert.False(t, ReportingEnabled())

	Report("create task failed", errors.New("disk full"), "owner", "u1")
	assert.Contains(t, buf.String(), "create task failed")
	assert.Contains(t, buf.String(), "disk full")
	Flush()
}
