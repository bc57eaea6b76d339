package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{
		Level:      LevelDebug,
		Component:  "test",
		JSONFormat: true,
		Output:     &buf,
	})

	log.Info("hello", F("review_id", 42), F("liked", true))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, float64(42), entry["review_id"])
	assert.Equal(t, true, entry["liked"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{
		Level:      LevelWarn,
		Component:  "test",
		JSONFormat: true,
		Output:     &buf,
	})

	log.Debug("dropped")
	log.Info("dropped too")
	assert.Zero(t, buf.Len(), "below-threshold messages should be discarded")

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{
		Level:      LevelDebug,
		Component:  "test",
		JSONFormat: true,
		Output:     &buf,
	})

	child := log.With(F("restaurant_id", 7), F("elapsed", 150*time.Millisecond))
	child.Info("listing")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(7), entry["restaurant_id"])
}

func TestErrField(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{
		Level:      LevelDebug,
		Component:  "test",
		JSONFormat: true,
		Output:     &buf,
	})

	log.Error("boom", Err(errors.New("socket closed")))
	assert.Contains(t, buf.String(), "socket closed")
}

func TestNop(t *testing.T) {
	log := Nop()
	// Must not panic and must not write anywhere.
	log.Info("ignored")
	assert.Equal(t, zerolog.Disabled, log.Zerolog().GetLevel())
}

func TestParseLevel_Default(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}
