package docxfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.False(t, cfg.Strict)
	require.NoError(t, cfg.Validate())
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("DOCXFILL_LOG_LEVEL", "debug")
	t.Setenv("DOCXFILL_LOG_FORMAT", "json")
	t.Setenv("DOCXFILL_STRICT", "yes")

	cfg := ConfigFromEnvironment()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.Strict)
}

func TestConfigFromEnvironmentDefaults(t *testing.T) {
	t.Setenv("DOCXFILL_LOG_LEVEL", "")
	t.Setenv("DOCXFILL_LOG_FORMAT", "")
	t.Setenv("DOCXFILL_STRICT", "")

	assert.Equal(t, DefaultConfig(), ConfigFromEnvironment())
}

func TestConfigValidate(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "off"} {
		cfg := &Config{LogLevel: level, LogFormat: "console"}
		assert.NoError(t, cfg.Validate(), level)
	}

	bad := &Config{LogLevel: "verbose", LogFormat: "console"}
	assert.Error(t, bad.Validate())

	bad = &Config{LogLevel: "info", LogFormat: "xml"}
	assert.Error(t, bad.Validate())
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "1", "yes", "on", " TRUE ", "Yes"} {
		assert.True(t, parseBool(s), s)
	}
	for _, s := range []string{"false", "0", "no", "off", "", "maybe"} {
		assert.False(t, parseBool(s), s)
	}
}
