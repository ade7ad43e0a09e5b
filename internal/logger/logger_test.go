package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)
	log.Info().Str("component", "planner").Msg("plan generated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "plan generated", entry["message"])
	assert.Equal(t, "planner", entry["component"])
	assert.NotEmpty(t, entry["time"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf).With().Str("request_id", "r1").Logger()

	ctx := WithContext(context.Background(), log)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"request_id":"r1"`)
}

func TestFromContextFallsBack(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
