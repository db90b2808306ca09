package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"extractive-summarizer/internal/handler/http/requestid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{name: "empty defaults to info", input: "", expected: slog.LevelInfo},
		{name: "debug", input: "debug", expected: slog.LevelDebug},
		{name: "upper case", input: "DEBUG", expected: slog.LevelDebug},
		{name: "warn", input: "warn", expected: slog.LevelWarn},
		{name: "warning alias", input: "warning", expected: slog.LevelWarn},
		{name: "error", input: " error ", expected: slog.LevelError},
		{name: "invalid defaults to info", input: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, slog.LevelInfo)

	logger.Info("summary built", slog.Int("sentences", 4))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output should be valid JSON")
	assert.Equal(t, "summary built", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, float64(4), entry["sentences"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "TEXT", slog.LevelInfo)

	logger.Info("summary built")

	output := buf.String()
	assert.Contains(t, output, "msg=\"summary built\"")
	assert.False(t, strings.HasPrefix(output, "{"), "text output should not be JSON")
}

func TestNew_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "xml", slog.LevelInfo).Info("hello")

	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, slog.LevelWarn)

	logger.Info("dropped")
	logger.Warn("kept")

	output := buf.String()
	assert.NotContains(t, output, "dropped")
	assert.Contains(t, output, "kept")
}

func TestNewLogger_ReadsEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	logger := NewLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	baseLogger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := requestid.WithRequestID(context.Background(), "550e8400-e29b-41d4-a716-446655440000")
	WithRequestID(ctx, baseLogger).Info("test message")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", entry["request_id"])
}

func TestWithRequestID_EmptyRequestID(t *testing.T) {
	var buf bytes.Buffer
	baseLogger := slog.New(slog.NewJSONHandler(&buf, nil))

	logger := WithRequestID(context.Background(), baseLogger)
	logger.Info("test message")

	assert.Same(t, baseLogger, logger)
	assert.NotContains(t, buf.String(), "request_id")
}

func TestNew_SourceOnlyAtDebug(t *testing.T) {
	var info, debug bytes.Buffer
	New(&info, FormatJSON, slog.LevelInfo).Info("x")
	New(&debug, FormatJSON, slog.LevelDebug).Info("x")

	assert.NotContains(t, info.String(), `"source"`)
	assert.Contains(t, debug.String(), `"source"`)
}

func TestFromContext(t *testing.T) {
	t.Run("without logger in context", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("with invalid value in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), loggerKey{}, "not a logger")
		assert.Equal(t, slog.Default(), FromContext(ctx))
	})

	t.Run("with logger in context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		FromContext(WithLogger(context.Background(), logger)).Info("test message")
		assert.Contains(t, buf.String(), "test message")
	})
}
