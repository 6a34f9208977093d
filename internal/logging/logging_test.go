// ABOUTME: Tests for logger construction
// ABOUTME: Checks level parsing, formatter selection and invalid inputs

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewDefaults(t *testing.T) {
	logger, err := New("", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("expected text formatter, got %T", logger.Formatter)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, "debug", "JSON")
	if err != nil {
		t.Fatalf("NewWithOutput failed: %v", err)
	}

	logger.WithField("source", "articles.csv").Debug("loaded")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "loaded" || entry["source"] != "articles.csv" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("NewWithOutput failed: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn message should be logged")
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := New("loud", "text"); err == nil {
		t.Error("expected error for invalid level")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing to see")
}
