package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging contract shared across packages.
type Logger = zerolog.Logger

// NewLogger builds the service logger for an APP_ENV value. Development gets a
// human-readable console at debug level, "test" is silenced, and anything else
// emits JSON lines at info level.
func NewLogger(appEnv string) Logger {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	switch appEnv {
	case "development":
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	case "test":
		out = io.Discard
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "ubuntu-relief").
		Str("env", appEnv).
		Logger()
}
