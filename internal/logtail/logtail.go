package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file is not an error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one structured log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]string
}

// Keys the logger writes that are not shown as fields.
var skippedKeys = map[string]bool{
	"ts":         true,
	"level":      true,
	"msg":        true,
	"caller":     true,
	"stacktrace": true,
}

// Parse decodes a JSON log line as written by the logging package. Lines that
// are not JSON objects come back as a message-only Entry with ok false.
func Parse(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{Message: strings.TrimSpace(line)}, false
	}

	e := Entry{Fields: make(map[string]string)}
	if v, ok := raw["level"].(string); ok {
		e.Level = strings.ToUpper(v)
	}
	if v, ok := raw["msg"].(string); ok {
		e.Message = v
	}
	switch ts := raw["ts"].(type) {
	case string:
		if t, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
			e.Time = t
		} else if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Time = t
		}
	case float64:
		sec := int64(ts)
		e.Time = time.Unix(sec, int64((ts-float64(sec))*1e9))
	}

	for k, v := range raw {
		if skippedKeys[k] {
			continue
		}
		switch val := v.(type) {
		case string:
			e.Fields[k] = val
		default:
			b, _ := json.Marshal(val)
			e.Fields[k] = string(b)
		}
	}
	return e, true
}

// String renders the entry as "15:04:05 WARN message key=value ...", with
// fields sorted by key.
func (e Entry) String() string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if e.Level != "" {
		fmt.Fprintf(&b, "%-5s ", e.Level)
	}
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := e.Fields[k]
		if strings.ContainsAny(v, " \t") {
			v = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(&b, " %s=%s", k, v)
	}
	return b.String()
}

// Tail reads the last maxLines of path and parses each line. Blank lines are
// dropped.
func Tail(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, _ := Parse(line)
		entries = append(entries, e)
	}
	return entries, nil
}
