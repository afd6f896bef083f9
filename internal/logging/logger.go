// Package logging provides the structured logging interface used by ringq.
package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug for per-operation tracing (enqueue, dequeue, persist)
	LevelDebug Level = iota
	// LevelInfo for lifecycle events (create, open, free)
	LevelInfo
	// LevelWarn for recoverable conditions
	LevelWarn
	// LevelError for failed operations
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// Logger is the interface for logging in ringq.
// Users can implement this interface to integrate with their logging system.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a structured logging field.
type Field struct {
	Key   string
	Value any
}

// F is a convenience function to create a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// NoopLogger is a logger that does nothing.
type NoopLogger struct{}

// Debug implements Logger.
func (NoopLogger) Debug(string, ...Field) {}

// Info implements Logger.
func (NoopLogger) Info(string, ...Field) {}

// Warn implements Logger.
func (NoopLogger) Warn(string, ...Field) {}

// Error implements Logger.
func (NoopLogger) Error(string, ...Field) {}

// DefaultLogger writes "[LEVEL] msg key=value" lines through the standard log package.
type DefaultLogger struct {
	minLevel Level
	logger   *log.Logger
}

// NewDefaultLogger creates a logger writing to stderr at the given minimum level.
func NewDefaultLogger(minLevel Level) *DefaultLogger {
	return NewWriterLogger(os.Stderr, minLevel)
}

// NewWriterLogger creates a logger writing to w at the given minimum level.
func NewWriterLogger(w io.Writer, minLevel Level) *DefaultLogger {
	return &DefaultLogger{
		minLevel: minLevel,
		logger:   log.New(w, "", log.LstdFlags),
	}
}

// Debug implements Logger.
func (l *DefaultLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }

// Info implements Logger.
func (l *DefaultLogger) Info(msg string, fields ...Field) { l.log(LevelInfo, msg, fields) }

// Warn implements Logger.
func (l *DefaultLogger) Warn(msg string, fields ...Field) { l.log(LevelWarn, msg, fields) }

// Error implements Logger.
func (l *DefaultLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *DefaultLogger) log(level Level, msg string, fields []Field) {
	if level < l.minLevel {
		return
	}

	if len(fields) == 0 {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		if s, ok := f.Value.(string); ok {
			b.WriteString(s)
		} else {
			fmt.Fprint(&b, f.Value)
		}
	}

	l.logger.Printf("[%s] %s %s", level, msg, b.String())
}

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l; a nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

// NewJSONLogger creates a SlogLogger emitting JSON to w at the given minimum level.
func NewJSONLogger(w io.Writer, minLevel Level) *SlogLogger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: minLevel.toSlog()})
	return &SlogLogger{l: slog.New(h)}
}

// Debug implements Logger.
func (s *SlogLogger) Debug(msg string, fields ...Field) { s.log(slog.LevelDebug, msg, fields) }

// Info implements Logger.
func (s *SlogLogger) Info(msg string, fields ...Field) { s.log(slog.LevelInfo, msg, fields) }

// Warn implements Logger.
func (s *SlogLogger) Warn(msg string, fields ...Field) { s.log(slog.LevelWarn, msg, fields) }

// Error implements Logger.
func (s *SlogLogger) Error(msg string, fields ...Field) { s.log(slog.LevelError, msg, fields) }

func (s *SlogLogger) log(level slog.Level, msg string, fields []Field) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, len(fields))
	for i, f := range fields {
		attrs[i] = slog.Any(f.Key, f.Value)
	}
	s.l.LogAttrs(ctx, level, msg, attrs...)
}

func (l Level) toSlog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
