package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the application logger instance
var Logger zerolog.Logger

// Init initializes the logger with the given configuration
func Init(level, format string) {
	Logger = New(os.Stdout, level, format)

	// Set the global logger
	log.Logger = Logger
}

// New builds a logger writing to w without touching the global instance.
// Tests use it to capture output.
func New(w io.Writer, level, format string) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	if strings.ToLower(format) != "json" {
		// Console format with colors
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		}
	}

	return zerolog.New(w).With().
		Timestamp().
		Caller().
		Str("service", "realestate-api").
		Logger()
}

// parseLogLevel parses string log level to zerolog level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// GetLogger returns the configured logger instance
func GetLogger() zerolog.Logger {
	return Logger
}
