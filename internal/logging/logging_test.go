package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestComponentCarriesSession(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: "debug", Console: &buf, JSON: true}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	logger := Component("prefs")
	logger.Info().Msg("saved")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["component"] != "prefs" {
		t.Fatalf("expected component prefs, got %v", line["component"])
	}
	if line["session"] != Session() || Session() == "" {
		t.Fatalf("expected session %q, got %v", Session(), line["session"])
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: "warn", Console: &buf, JSON: true}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	logger := Component("x")
	logger.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	logger.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mailassist.log")
	if err := Init(Config{File: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	logger := Component("tui")
	logger.Info().Msg("started")
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"component":"tui"`) {
		t.Fatalf("expected tui line in file, got %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	if level, err := ParseLevel(""); err != nil || level != zerolog.InfoLevel {
		t.Fatalf("expected info default, got %v (%v)", level, err)
	}
	if level, err := ParseLevel(" DEBUG "); err != nil || level != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v (%v)", level, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if err := Init(Config{Level: "loud"}); err == nil {
		t.Fatalf("expected Init to reject unknown level")
	}
}
