package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func parseEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("Failed to parse log line %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestJSONLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug msg")
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error("error msg")

	entries := parseEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries at WarnLevel, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("Unexpected levels: %s, %s", entries[0].Level, entries[1].Level)
	}
}

func TestJSONLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("build complete",
		PartyID("5551234"),
		RecordCount(42),
		Bool("truncated", false),
	)

	entries := parseEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].Fields
	if fields["party_id"] != "5551234" {
		t.Errorf("party_id = %v, want 5551234", fields["party_id"])
	}
	if fields["record_count"] != float64(42) {
		t.Errorf("record_count = %v, want 42", fields["record_count"])
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("builder"))
	child.Info("first")
	child.Info("second", Error(errors.New("boom")))

	entries := parseEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Fields["component"] != "builder" {
			t.Errorf("Expected pre-set component field, got %v", e.Fields)
		}
	}
	if entries[1].Fields["error"] != "boom" {
		t.Errorf("error field = %v, want boom", entries[1].Fields["error"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"ERROR":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	// Must not panic and must be chainable
	logger.With(String("k", "v")).Info("ignored")
	if logger.GetLevel() != InfoLevel {
		t.Errorf("NopLogger level = %v, want InfoLevel", logger.GetLevel())
	}
}
