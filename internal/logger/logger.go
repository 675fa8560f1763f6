package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides structured logging, one JSON object per line.
type Logger struct {
	zl zerolog.Logger
}

// New creates a new logger instance writing to stdout. LOG_LEVEL picks the
// minimum level and LOG_FORMAT=console switches to human-readable output.
func New() *Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	l := NewWithWriter(w)
	l.zl = l.zl.Level(ParseLevel(os.Getenv("LOG_LEVEL")))
	return l
}

// NewWithWriter creates a logger with a custom writer
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		zl: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, field := range fields {
		ctx = ctx.Interface(field.Key, field.Value)
	}
	return &Logger{zl: ctx.Logger()}
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(l.zl.Info(), msg, fields...)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(l.zl.Error(), msg, fields...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(l.zl.Warn(), msg, fields...)
}

// Debug logs debug messages
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(l.zl.Debug(), msg, fields...)
}

func (l *Logger) log(event *zerolog.Event, msg string, fields ...Field) {
	if event == nil {
		return
	}
	for _, field := range fields {
		switch v := field.Value.(type) {
		case error:
			event = event.AnErr(field.Key, v)
		case time.Duration:
			event = event.Dur(field.Key, v)
		default:
			event = event.Interface(field.Key, v)
		}
	}
	event.Msg(msg)
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new field (shorthand)
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Common field constructors
func Action(value string) Field          { return F("action", value) }
func Status(value string) Field          { return F("status", value) }
func Club(value string) Field            { return F("club", value) }
func Count(value int) Field              { return F("count", value) }
func Error(value error) Field            { return F("error", value) }
func Kind(value string) Field            { return F("kind", value) }
func RequestID(value string) Field       { return F("request_id", value) }
func Method(value string) Field          { return F("method", value) }
func Path(value string) Field            { return F("path", value) }
func StatusCode(value int) Field         { return F("status_code", value) }
func Duration(value time.Duration) Field { return F("duration", value) }
func Endpoint(value string) Field        { return F("endpoint", value) }
