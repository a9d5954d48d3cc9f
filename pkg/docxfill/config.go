package docxfill

import (
	"errors"
	"os"
	"strings"
)

// Config contains the engine options.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error, off).
	LogLevel string
	// LogFormat selects log output: "console" or "json".
	LogFormat string
	// Strict makes Apply return an UnresolvedError when placeholders did
	// not resolve. Non-strict runs leave them literal and only log.
	Strict bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
		Strict:    false,
	}
}

// ConfigFromEnvironment creates a configuration from environment
// variables: DOCXFILL_LOG_LEVEL, DOCXFILL_LOG_FORMAT, DOCXFILL_STRICT.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("DOCXFILL_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}
	if val := os.Getenv("DOCXFILL_LOG_FORMAT"); val != "" {
		config.LogFormat = val
	}
	if val := os.Getenv("DOCXFILL_STRICT"); val != "" {
		config.Strict = parseBool(val)
	}
	return config
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return errors.New("invalid log format: " + c.LogFormat)
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
