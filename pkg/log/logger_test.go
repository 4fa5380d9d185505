package log

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// captureTransporter records delivered entries.
type captureTransporter struct {
	mu      sync.Mutex
	entries []Entry
	closed  bool
}

func (c *captureTransporter) Name() string { return "capture" }

func (c *captureTransporter) Write(entry Entry) error {
	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()
	return nil
}

func (c *captureTransporter) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *captureTransporter) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry{}, c.entries...)
}

func TestLogger_BelowLevel_IsDropped(t *testing.T) {
	capture := &captureTransporter{}
	logger := New(Warn, capture)

	logger.Info("ignored")
	logger.Warn("kept")
	logger.Close()

	entries := capture.Entries()
	if len(entries) != 1 || entries[0].Message != "kept" {
		t.Fatalf("entries = %+v, want only 'kept'", entries)
	}
	if !capture.closed {
		t.Error("Close() should close transporters")
	}
}

func TestLogger_Fields_MergeBaseContextAndCallSite(t *testing.T) {
	// Arrange
	capture := &captureTransporter{}
	logger := New(Debug, capture).With("component", "feed")
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithFields(ctx, "feed_term", "golang")

	// Act
	logger.InfoCtx(ctx, "rendered", "items", 3)
	logger.Close()

	// Assert
	entries := capture.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries count = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want req-1", e.RequestID)
	}
	for k, want := range map[string]any{"component": "feed", "feed_term": "golang", "items": 3} {
		if e.Fields[k] != want {
			t.Errorf("Fields[%q] = %v, want %v", k, e.Fields[k], want)
		}
	}
	if !strings.HasPrefix(e.Caller, "logger_test.go:") {
		t.Errorf("Caller = %q, want logger_test.go:<line>", e.Caller)
	}
}

func TestLogger_SetLevel_AffectsChildren(t *testing.T) {
	capture := &captureTransporter{}
	parent := New(Error, capture)
	child := parent.With("k", "v")

	parent.SetLevel(Debug)
	child.Debug("now visible")
	parent.Close()

	if len(capture.Entries()) != 1 {
		t.Errorf("child should follow parent's level")
	}
}

func TestGlobal_WithoutDefault_Discards(t *testing.T) {
	SetDefault(nil)

	// Must not panic.
	GlobalInfo("nothing")
	GlobalErrorCtx(context.Background(), "nothing", "error", errors.New("x"))
}

func TestGlobal_UsesDefault(t *testing.T) {
	capture := &captureTransporter{}
	logger := New(Info, capture)
	SetDefault(logger)
	defer SetDefault(nil)

	GlobalWarn("hello", "a", 1)
	logger.Close()

	entries := capture.Entries()
	if len(entries) != 1 || entries[0].Level != Warn {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestBuffer_Full_DropsOldest(t *testing.T) {
	block := make(chan struct{})
	slow := &blockingTransporter{release: block}
	buf := NewBuffer(1, slow)

	// The worker takes the first entry and blocks; the next ones compete
	// for a single slot.
	buf.Send(*NewEntry(Info, "1"))
	time.Sleep(20 * time.Millisecond)
	buf.Send(*NewEntry(Info, "2"))
	buf.Send(*NewEntry(Info, "3"))

	if buf.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", buf.Dropped())
	}
	close(block)
	buf.Close()
}

type blockingTransporter struct {
	release chan struct{}
}

func (b *blockingTransporter) Name() string { return "blocking" }
func (b *blockingTransporter) Write(Entry) error {
	<-b.release
	return nil
}
func (b *blockingTransporter) Close() error { return nil }

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", Debug, false},
		{"WARNING", Warn, false},
		{" error ", Error, false},
		{"verbose", Info, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if got != tt.want || (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestEntry_MarshalJSON_FlattensFieldsAndErrors(t *testing.T) {
	e := NewEntry(Error, "boom").With("error", errors.New("bad"), "term", "go")
	e.RequestID = "r"

	data, err := e.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{`"error":"bad"`, `"term":"go"`, `"level":"ERROR"`, `"request_id":"r"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}
