package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("detection complete", String("series", "Harry Potter"), Int("confidence", 85))

	line := buf.String()
	if !strings.Contains(line, "INFO detection complete") {
		t.Fatalf("missing level and message: %q", line)
	}
	if !strings.Contains(line, `series="Harry Potter"`) {
		t.Fatalf("spaced value not quoted: %q", line)
	}
	if !strings.Contains(line, "confidence=85") {
		t.Fatalf("missing int attr: %q", line)
	}
}

func TestConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info leaked through warn filter: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn suppressed: %q", out)
	}
}

func TestConsoleGroupsFlatten(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.WithGroup("book").Info("grouped", String("title", "Dune"))
	if !strings.Contains(buf.String(), "book.title=Dune") {
		t.Fatalf("group prefix missing: %q", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("batch done",
		String(FieldEventType, "decision_summary"),
		Error(errors.New("partial failure")))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if payload["msg"] != "batch done" {
		t.Fatalf("unexpected msg field: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level field: %v", payload["level"])
	}
	if payload[FieldEventType] != "decision_summary" {
		t.Fatalf("event type missing: %v", payload)
	}
	if payload["error"] != "partial failure" {
		t.Fatalf("error attr missing: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("timestamp missing: %v", payload)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic or emit; exercised for coverage of the default path.
	logger.Error("ignored", String("key", "value"))
}
