// Package logging builds the zerolog logger used across comic-collector.
//
// Output is human-readable on a terminal and JSON otherwise:
//
//	log := logging.New(logging.Config{Level: "debug"})
//	log.Info().Str("path", "data/comics.csv").Msg("catalog loaded")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config holds logger configuration options
type Config struct {
	// Level is the minimum log level to output
	Level string

	// Format is the output format (auto, json, console)
	Format string

	// Output is where to write logs (stderr, stdout, discard, or file path)
	Output string

	// NoColor disables color output in console mode
	NoColor bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Format:  "auto",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// New creates a logger from cfg. Every entry carries a per-process session id
// so the lines of one run can be grouped.
func New(cfg Config) zerolog.Logger {
	level := ParseLevel(cfg.Level)
	return zerolog.New(writer(cfg)).
		Level(level).
		With().
		Timestamp().
		Str("session", uuid.NewString()).
		Logger()
}

// writer resolves the destination and format.
func writer(cfg Config) io.Writer {
	var out io.Writer
	var fd uintptr
	tty := false

	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out, fd, tty = os.Stderr, os.Stderr.Fd(), true
	case "stdout":
		out, fd, tty = os.Stdout, os.Stdout.Fd(), true
	case "discard", "none":
		return io.Discard
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			// Fall back to stderr
			out, fd, tty = os.Stderr, os.Stderr.Fd(), true
		} else {
			out = file
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if tty && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
			format = "console"
		}
	}

	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: cfg.NoColor}
	}
	return out
}

// ParseLevel parses a log level string, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
		return l
	}
	return zerolog.InfoLevel
}
