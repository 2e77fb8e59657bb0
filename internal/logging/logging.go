// Package logging provides a shared, structured logger for norganisers.
//
// It wraps the standard library's [log/slog] package and provides a single
// initialization point so all components share the same output handler and
// log level. The log level can be controlled at startup via the
// NORGANISERS_LOG_LEVEL environment variable (debug, info, warn, error).
// If unset, the default level is ERROR so the terminal UI stays clean.
//
// Usage:
//
//	log := logging.New("config")       // creates a logger tagged with component="config"
//	log.Info("loaded config", "path", p)
//	log.Error("failed to save", "error", err)
//
// Output goes to stderr unless Configure redirects it (the --debug flag
// sends everything to a log file instead).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// EnvLevel names the environment variable that selects the default level.
const EnvLevel = "NORGANISERS_LOG_LEVEL"

var (
	mu sync.Mutex

	// baseLogger is the logger shared by all components. Component loggers
	// are derived from it via With().
	baseLogger *slog.Logger

	// levelVar lets Configure change the level of loggers already handed out.
	levelVar = new(slog.LevelVar)

	// sink is swapped by Configure; handlers write through it so component
	// loggers created before Configure follow the redirect.
	sink = &switchWriter{w: os.Stderr}
)

type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

func base() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if baseLogger == nil {
		levelVar.Set(parseLevel(os.Getenv(EnvLevel)))
		baseLogger = slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{
			Level: levelVar,
		}))
	}
	return baseLogger
}

// New returns a structured logger scoped to the given component name.
//
// The component name is added as a "component" attribute to every log entry
// produced by the returned logger. If component is empty, the base logger is
// returned without any additional attributes.
func New(component string) *slog.Logger {
	logger := base()
	if component == "" {
		return logger
	}
	return logger.With("component", component)
}

// Configure redirects all log output to w at the given level. Loggers
// obtained from New before the call follow the new destination and level.
func Configure(w io.Writer, level slog.Level) {
	base()
	if w == nil {
		w = io.Discard
	}
	sink.set(w)
	levelVar.Set(level)
}

// parseLevel converts a human-readable log level string to a [slog.Level].
//
// Recognized values (case-insensitive, whitespace-trimmed):
//   - "debug"           → slog.LevelDebug
//   - "info"            → slog.LevelInfo
//   - "warn", "warning" → slog.LevelWarn
//   - anything else     → slog.LevelError (the default)
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
