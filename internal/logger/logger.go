package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide console logger.
func New(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "gatekeeper-bot").
		Logger()
}
