package treesync

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf, 1)

	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "/src").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "lib=treesync")
	assert.Contains(t, out, "path=/src")
}

func TestLevelFromVerbosity(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, LevelFromVerbosity(0))
	assert.Equal(t, zerolog.InfoLevel, LevelFromVerbosity(1))
	assert.Equal(t, zerolog.DebugLevel, LevelFromVerbosity(2))
	assert.Equal(t, zerolog.TraceLevel, LevelFromVerbosity(7))
}

func TestLogLevelFromString(t *testing.T) {
	level, err := LogLevelFromString("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = LogLevelFromString("loud")
	assert.Error(t, err)
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRunID(NewLogger(&buf, zerolog.InfoLevel))
	logger.Info().Msg("tagged")
	assert.Contains(t, buf.String(), "run_id=")
}
