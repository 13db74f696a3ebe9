// ABOUTME: Tests for slog configuration helpers
// ABOUTME: Verifies level parsing, format selection and file output

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_JSONFormat(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	l := Init(&buf, "info", "json")
	l.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["key"] != "value" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	l := Init(&buf, "warn", "text")
	l.Info("dropped")
	l.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("expected info entry to be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("expected warn entry to be written")
	}
}

func TestInitFile_WritesDebugLog(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := filepath.Join(t.TempDir(), "nested")
	l, err := InitFile(dir, "debug", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Debug("to file")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("expected debug.log to exist: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("expected log line in file, got %q", data)
	}
}

func TestInitFile_EmptyDirDiscards(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	l, err := InitFile("", "info", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Info("nowhere")
}
