// Package logging builds zerolog loggers for spyglass.
//
// The reader owns the terminal, so nothing is logged to stderr while the TUI
// runs. Debug sessions write JSON lines to a file instead:
//
//	log, closeFn, err := logging.NewFile(".spyglass/spyglass.log", "debug")
//	defer closeFn()
//	log.Debug().Str("selector", "#intro").Msg("spied")
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Nop discards everything.
var Nop = zerolog.Nop()

// New creates a logger writing JSON lines to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human-readable logger, used by the CLI before the TUI
// takes over the screen.
func NewConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
	return New(writer, level)
}

// NewFile opens (appending) a log file and returns a logger for it together
// with a function that closes the file.
func NewFile(path, level string) (zerolog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Nop, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Nop, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(f, ParseLevel(level)), f.Close, nil
}

// ParseLevel turns a level name into a zerolog level. An empty name falls
// back to LOG_LEVEL, then DEBUG, then info.
func ParseLevel(name string) zerolog.Level {
	if name == "" {
		name = os.Getenv("LOG_LEVEL")
	}
	if name == "" {
		if os.Getenv("DEBUG") != "" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}

	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
