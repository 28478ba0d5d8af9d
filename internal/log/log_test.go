// ABOUTME: Tests for the logging package: level filtering and sink redirection

package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetLevel(t *testing.T) {
	savedLevel := GetLevel()
	defer SetLevel(savedLevel)

	SetLevel(LevelDebug)
	if GetLevel() != LevelDebug {
		t.Errorf("expected LevelDebug, got %v", GetLevel())
	}

	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("expected LevelError, got %v", GetLevel())
	}
}

func TestLevelFiltering(t *testing.T) {
	savedLevel := GetLevel()
	defer SetLevel(savedLevel)
	defer SetOutput(os.Stderr)

	var buf bytes.Buffer
	SetOutput(&buf)

	SetLevel(slog.LevelInfo)
	Debug("suppressed %d", 1)
	Info("emitted %d", 2)
	Warn("emitted %d", 3)
	Error("emitted %d", 4)

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("debug message leaked at info level: %q", out)
	}
	for _, want := range []string{"[INFO] emitted 2", "[WARN] emitted 3", "[ERROR] emitted 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestSetFile(t *testing.T) {
	savedLevel := GetLevel()
	defer SetLevel(savedLevel)

	path := filepath.Join(t.TempDir(), "debug.log")
	closeFn, err := SetFile(path)
	if err != nil {
		t.Fatalf("SetFile() error: %v", err)
	}

	SetLevel(LevelDebug)
	Debug("to file: %s", "yes")

	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[DEBUG] to file: yes") {
		t.Errorf("file content = %q", data)
	}

	// After close, emitting must not write to the closed file.
	Error("back on stderr")
	again, _ := os.ReadFile(path)
	if strings.Contains(string(again), "back on stderr") {
		t.Error("output still routed to closed file")
	}
}
