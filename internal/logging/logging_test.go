package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todoable.log")

	logger, err := New("debug", path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file = %q, want hello entry", string(data))
	}
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todoable.log")

	logger, err := New("warn", path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "quiet") || !strings.Contains(string(data), "loud") {
		t.Fatalf("log file = %q, want only warn entries", string(data))
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty"); err == nil {
		t.Fatalf("New returned nil error, want level error")
	}
}
