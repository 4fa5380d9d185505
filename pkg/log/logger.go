// Package log is a small leveled, structured logger with asynchronous
// delivery to pluggable transporters.
package log

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
)

// Logger emits entries at or above its level.
type Logger struct {
	level      *atomic.Int32
	buffer     *Buffer
	baseFields map[string]any
}

// New creates a logger delivering to transporters through a 1000-entry buffer.
func New(level Level, transporters ...Transporter) *Logger {
	lv := new(atomic.Int32)
	lv.Store(int32(level))
	return &Logger{
		level:      lv,
		buffer:     NewBuffer(1000, transporters...),
		baseFields: make(map[string]any),
	}
}

// SetLevel changes the minimum level of l and every logger derived from it.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// With returns a child logger sharing l's buffer and level, with extra
// base fields.
func (l *Logger) With(keysAndValues ...any) *Logger {
	fields := make(map[string]any, len(l.baseFields)+len(keysAndValues)/2)
	for k, v := range l.baseFields {
		fields[k] = v
	}
	mergePairs(fields, keysAndValues)
	return &Logger{level: l.level, buffer: l.buffer, baseFields: fields}
}

// Close flushes queued entries and closes the transporters.
func (l *Logger) Close() {
	l.buffer.Close()
}

func (l *Logger) log(ctx context.Context, level Level, msg string, keysAndValues []any) {
	if !Level(l.level.Load()).Enables(level) {
		return
	}

	entry := NewEntry(level, msg)
	entry.Caller = caller(3)
	for k, v := range l.baseFields {
		entry.Fields[k] = v
	}
	if ctx != nil {
		entry.RequestID = RequestIDFromContext(ctx)
		for k, v := range FieldsFromContext(ctx) {
			entry.Fields[k] = v
		}
	}
	entry.With(keysAndValues...)

	l.buffer.Send(*entry)
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func (l *Logger) Debug(msg string, kv ...any) { l.log(nil, Debug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.log(nil, Info, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.log(nil, Warn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.log(nil, Error, msg, kv) }

// Fatal logs at Fatal level. Exiting is left to the caller.
func (l *Logger) Fatal(msg string, kv ...any) { l.log(nil, Fatal, msg, kv) }

func (l *Logger) DebugCtx(ctx context.Context, msg string, kv ...any) { l.log(ctx, Debug, msg, kv) }
func (l *Logger) InfoCtx(ctx context.Context, msg string, kv ...any)  { l.log(ctx, Info, msg, kv) }
func (l *Logger) WarnCtx(ctx context.Context, msg string, kv ...any)  { l.log(ctx, Warn, msg, kv) }
func (l *Logger) ErrorCtx(ctx context.Context, msg string, kv ...any) { l.log(ctx, Error, msg, kv) }

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
	discard      = New(Fatal + 1)
)

// SetDefault installs the logger used by the Global* helpers.
func SetDefault(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Default returns the global logger, or one that discards everything.
func Default() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return discard
	}
	return globalLogger
}

// The Global helpers call through Default(); the extra frame is why they
// use log directly instead of delegating to the methods above.

func GlobalDebug(msg string, kv ...any) { Default().log(nil, Debug, msg, kv) }
func GlobalInfo(msg string, kv ...any)  { Default().log(nil, Info, msg, kv) }
func GlobalWarn(msg string, kv ...any)  { Default().log(nil, Warn, msg, kv) }
func GlobalError(msg string, kv ...any) { Default().log(nil, Error, msg, kv) }

func GlobalDebugCtx(ctx context.Context, msg string, kv ...any) {
	Default().log(ctx, Debug, msg, kv)
}

func GlobalInfoCtx(ctx context.Context, msg string, kv ...any) {
	Default().log(ctx, Info, msg, kv)
}

func GlobalWarnCtx(ctx context.Context, msg string, kv ...any) {
	Default().log(ctx, Warn, msg, kv)
}

func GlobalErrorCtx(ctx context.Context, msg string, kv ...any) {
	Default().log(ctx, Error, msg, kv)
}
