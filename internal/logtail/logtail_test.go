package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 5)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","ts":"2025-10-08T21:01:05.123Z","caller":"ui/app.go:42","msg":"action failed","action":"Created list","status":422}`

	e, ok := Parse(line)
	if !ok {
		t.Fatalf("Parse() ok = false")
	}
	if e.Level != "WARN" || e.Message != "action failed" {
		t.Fatalf("Parse() = %+v", e)
	}
	want := time.Date(2025, 10, 8, 21, 1, 5, 123_000_000, time.UTC)
	if !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
	if !reflect.DeepEqual(e.Fields, map[string]string{"action": "Created list", "status": "422"}) {
		t.Fatalf("Fields = %v", e.Fields)
	}
}

func TestParseNonJSON(t *testing.T) {
	e, ok := Parse("  panic: runtime error  ")
	if ok {
		t.Fatalf("Parse() ok = true for plain text")
	}
	if e.Message != "panic: runtime error" || e.Level != "" {
		t.Fatalf("Parse() = %+v", e)
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{
		Level:   "INFO",
		Message: "authenticated",
		Fields:  map[string]string{"user": "jo", "action": "Created list"},
	}
	want := `INFO  authenticated action="Created list" user=jo`
	if got := e.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	if got := (Entry{Message: "plain"}).String(); got != "plain" {
		t.Fatalf("String() = %q, want plain", got)
	}
}

func TestTail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "todoable.log")
	content := strings.Join([]string{
		`{"level":"info","ts":"2025-10-08T21:01:05.000Z","msg":"starting tui"}`,
		``,
		`{"level":"warn","ts":"2025-10-08T21:01:06.000Z","msg":"refresh failed","error":"timeout"}`,
		`not json`,
	}, "\n")
	if err := os.WriteFile(logPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := Tail(logPath, 10)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Tail() returned %d entries, want 3", len(entries))
	}
	if entries[1].Message != "refresh failed" || entries[1].Fields["error"] != "timeout" {
		t.Fatalf("entries[1] = %+v", entries[1])
	}
	if entries[2].Message != "not json" {
		t.Fatalf("entries[2] = %+v", entries[2])
	}
}
