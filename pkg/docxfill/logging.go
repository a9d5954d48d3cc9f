package docxfill

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	baseLogger   zerolog.Logger
	loggerOnce   sync.Once
	loggerMu     sync.RWMutex
	loggerCustom bool
)

func initLogger() {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if !loggerCustom {
			baseLogger = buildLogger(os.Stderr, ConfigFromEnvironment())
		}
	})
}

func buildLogger(w io.Writer, cfg *Config) zerolog.Logger {
	var out io.Writer = w
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: w}
	}
	level := parseLogLevel(cfg.LogLevel)
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func parseLogLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// ConfigureLogging rebuilds the package logger from a config, writing to w
// (stderr if nil).
func ConfigureLogging(w io.Writer, cfg *Config) {
	if w == nil {
		w = os.Stderr
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	baseLogger = buildLogger(w, cfg)
	loggerCustom = true
}

// Component returns a logger tagged with a component name.
func Component(name string) zerolog.Logger {
	initLogger()
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return baseLogger.With().Str("component", name).Logger()
}
