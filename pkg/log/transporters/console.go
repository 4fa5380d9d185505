package transporters

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/lmittmann/tint"

	"tweetfeed/pkg/log"
)

// Console renders entries as colored, human-readable lines through tint.
// Level filtering is done by the logger, so the handler accepts everything.
type Console struct {
	handler slog.Handler
}

// NewConsole writes to os.Stderr.
func NewConsole() *Console {
	return NewConsoleWithWriter(os.Stderr, false)
}

// NewConsoleWithWriter writes to w; noColor disables ANSI escapes.
func NewConsoleWithWriter(w io.Writer, noColor bool) *Console {
	return &Console{
		handler: tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug - 4,
			TimeFormat: time.Kitchen,
			NoColor:    noColor,
		}),
	}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Write(entry log.Entry) error {
	r := slog.NewRecord(entry.Timestamp, entry.Level.Slog(), entry.Message, 0)
	if entry.Caller != "" {
		r.AddAttrs(slog.String("caller", entry.Caller))
	}
	if entry.RequestID != "" {
		r.AddAttrs(slog.String("request_id", entry.RequestID))
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := entry.Fields[k]
		if err, ok := v.(error); ok {
			r.AddAttrs(tint.Err(err))
			continue
		}
		r.AddAttrs(slog.Any(k, v))
	}

	return c.handler.Handle(context.Background(), r)
}

func (c *Console) Close() error { return nil }
