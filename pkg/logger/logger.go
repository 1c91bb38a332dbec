package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type settings struct {
	mu     sync.RWMutex
	level  zerolog.Level
	writer zerolog.ConsoleWriter
}

var defaults = &settings{
	level: zerolog.InfoLevel,
	writer: zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	},
}

// SetLogLevel switches the global level. Unknown names fall back to info.
func SetLogLevel(level string) {
	defaults.mu.Lock()
	defer defaults.mu.Unlock()

	switch strings.ToLower(level) {
	case "debug":
		defaults.level = zerolog.DebugLevel
	case "info":
		defaults.level = zerolog.InfoLevel
	case "warn", "warning":
		defaults.level = zerolog.WarnLevel
	case "error":
		defaults.level = zerolog.ErrorLevel
	case "fatal":
		defaults.level = zerolog.FatalLevel
	default:
		defaults.level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(defaults.level)
}

// ComponentLogger returns a logger tagged with the component name.
func ComponentLogger(component string) zerolog.Logger {
	defaults.mu.RLock()
	defer defaults.mu.RUnlock()

	return zerolog.New(defaults.writer).With().
		Timestamp().
		Str("component", component).
		Logger().Level(defaults.level)
}
