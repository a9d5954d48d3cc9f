package docxfill

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	ConfigureLogging(&buf, &Config{LogLevel: "debug", LogFormat: "json"})
	defer ConfigureLogging(nil, DefaultConfig())

	lg := Component("replacer")
	lg.Info().Str("path", "a.b").Msg("placeholder substituted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "replacer", entry["component"])
	assert.Equal(t, "a.b", entry["path"])
	assert.Equal(t, "placeholder substituted", entry["message"])
}

func TestLogLevelOffSilencesOutput(t *testing.T) {
	var buf bytes.Buffer
	ConfigureLogging(&buf, &Config{LogLevel: "off", LogFormat: "json"})
	defer ConfigureLogging(nil, DefaultConfig())

	lg := Component("replacer")
	lg.Error().Msg("should not appear")
	assert.Empty(t, buf.Bytes())
}

func TestParseLogLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, parseLogLevel("info"), parseLogLevel("unknown"))
}
