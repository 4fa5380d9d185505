package transporters

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"tweetfeed/pkg/log"
)

var (
	_ log.Transporter = (*Stdout)(nil)
	_ log.Transporter = (*Console)(nil)
)

func TestStdout_Write_OutputsLineDelimitedJSON(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdoutWithWriter(&buf)
	entry := log.Entry{
		Timestamp: time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC),
		Level:     log.Info,
		Message:   "feed rendered",
		Fields:    map[string]any{"feed_term": "golang"},
	}

	if err := s.Write(entry); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("output should end with a newline")
	}
	var got map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["msg"] != "feed rendered" || got["feed_term"] != "golang" || got["timestamp"] != "2026-01-03T12:00:00Z" {
		t.Errorf("unexpected output: %v", got)
	}
}

func TestConsole_Write_RendersMessageAndFields(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWithWriter(&buf, true)
	entry := log.Entry{
		Timestamp: time.Now(),
		Level:     log.Warn,
		Message:   "cache read failed",
		RequestID: "req-9",
		Fields:    map[string]any{"key": "tweetfeed_output_go", "error": errors.New("down")},
	}

	if err := c.Write(entry); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"WRN", "cache read failed", "request_id=req-9", "key=tweetfeed_output_go", "down"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
