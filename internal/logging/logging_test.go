package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, json := range []bool{true, false} {
		logger, err := New(json, false)
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	}

	logger, err := New(false, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	WithFields(logger, zap.String(FieldJob, "job-1")).Info("scored")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "job-1", entries[0].ContextMap()[FieldJob])

	fallback := WithFields(nil, zap.String("k", "v"))
	require.NotNil(t, fallback)
	fallback.Info("does not panic")

	assert.Same(t, logger, WithFields(logger))
}

func TestEmbeddingFields(t *testing.T) {
	fields := EmbeddingFields("  gemini ", "text-embedding-004")
	require.Len(t, fields, 2)
	assert.Equal(t, FieldProvider, fields[0].Key)
	assert.Equal(t, "gemini", fields[0].String)
	assert.Equal(t, FieldModel, fields[1].Key)

	assert.Empty(t, EmbeddingFields("", " "))
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{"short", "hello", 10, "hello"},
		{"trimmed", "  hello  ", 5, "hello"},
		{"truncated", "hello world", 5, "hello..."},
		{"runes", "héllo wörld", 7, "héllo w..."},
		{"zero limit", "hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateForLog(tt.input, tt.limit))
		})
	}
}
