// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config selects the log destination and level.
type Config struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// File, when set, receives JSON lines instead of the console.
	File string
	// Console is the writer used when File is empty; defaults to stderr.
	Console io.Writer
	// JSON disables console formatting for Console output.
	JSON bool
}

var (
	mu      sync.RWMutex
	base    = zerolog.Nop()
	session string
	closer  io.Closer
)

// Init replaces the global logger. Call Close when the process exits.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var out io.Writer
	var file *os.File
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
	} else {
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		out = console
		if !cfg.JSON {
			out = zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}
		}
	}

	id := uuid.NewString()
	logger := zerolog.New(out).Level(level).With().Timestamp().Str("session", id).Logger()

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	if file != nil {
		closer = file
	}
	base = logger
	session = id
	return nil
}

// Close flushes and closes the log file, if any, and silences logging.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.Nop()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// Component returns a logger tagged with the component name.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", name).Logger()
}

// Session returns the id attached to every line of this run.
func Session() string {
	mu.RLock()
	defer mu.RUnlock()
	return session
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}
