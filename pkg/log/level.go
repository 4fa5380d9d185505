package log

import (
	"errors"
	"log/slog"
	"strings"
)

// Level is the severity of an entry.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Fatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if l < Trace || l > Fatal {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ErrInvalidLevel is returned when parsing an unknown level string.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a level name, case-insensitively. Unknown names
// return Info together with ErrInvalidLevel.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return Info, ErrInvalidLevel
}

// Enables reports whether a logger at level l emits entries at target.
func (l Level) Enables(target Level) bool {
	return target >= l
}

// Slog maps the level onto the nearest slog level.
func (l Level) Slog() slog.Level {
	switch {
	case l <= Debug:
		return slog.LevelDebug
	case l == Info:
		return slog.LevelInfo
	case l == Warn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
