package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONWritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf)

	logger.Info().Str("file", "2019.xlsx").Int("events", 42).Msg("reconciled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "2019.xlsx", entry["file"])
	assert.Equal(t, float64(42), entry["events"])
	assert.Equal(t, "reconciled", entry["message"])
}

func TestFromContextReturnsDefaultWhenMissing(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	assert.Equal(t, Default(), logger)
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	got := Ctx(ctx)
	require.NotNil(t, got)

	got.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestWithLoggerNilFallsBackToDefault(t *testing.T) {
	ctx := WithLogger(context.Background(), nil)
	assert.Equal(t, Default(), FromContext(ctx))
}

func TestNopDiscards(t *testing.T) {
	// Must not panic and must not write anywhere.
	Nop.Error().Msg("discarded")
	assert.Equal(t, zerolog.Disabled, Nop.GetLevel())
}
