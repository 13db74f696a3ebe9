// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: CLI runs log to stderr; the TUI logs to a debug file so the screen stays clean.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init configures the default slog logger writing to w.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
func Init(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// InitFile configures the default logger to append to debug.log inside
// configDir. If configDir is empty, logs are discarded.
func InitFile(configDir, level, format string) (*slog.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return Init(io.Discard, level, format), nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Init(io.Discard, level, format), err
	}

	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return Init(io.Discard, level, format), err
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	return Init(f, level, format), nil
}

// Close closes the debug log file, if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
