// Package logging provides a leveled console logger with plain, color, and
// JSON output. The logger travels in context.Context so commands and the
// pipeline share one configured instance.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level is the severity of a log message.
type Level int

// Levels ordered from least to most severe.
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the upper-case name of the level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Format selects how log lines are rendered.
type Format int

const (
	PlainFormat Format = iota
	ColorFormat
	JSONFormat
)

// ParseLevel converts a level name to a Level. Unknown names map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// ParseFormat converts a format name to a Format. Unknown names map to plain.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "color":
		return ColorFormat
	case "json":
		return JSONFormat
	default:
		return PlainFormat
	}
}

// Logger writes leveled messages to a console writer.
type Logger struct {
	mu      sync.Mutex
	level   Level
	format  Format
	quiet   bool
	verbose bool
	out     io.Writer
	now     func() time.Time
}

// New creates a Logger at the given level writing plain text to stderr.
func New(level Level) *Logger {
	return &Logger{
		level:  level,
		format: PlainFormat,
		out:    os.Stderr,
		now:    time.Now,
	}
}

// NewWithOptions creates a Logger from configuration strings and CLI flags.
// Verbose lowers the level to debug; quiet shows errors only.
func NewWithOptions(level, format string, quiet, verbose bool) *Logger {
	l := New(ParseLevel(level))
	l.format = ParseFormat(format)
	l.quiet = quiet
	l.verbose = verbose
	if verbose {
		l.level = DebugLevel
	}
	return l
}

// SetOutput redirects log output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabledLocked(level)
}

func (l *Logger) enabledLocked(level Level) bool {
	if l.quiet {
		return level == ErrorLevel
	}
	if l.verbose {
		return true
	}
	return level >= l.level
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil || !l.enabledLocked(level) {
		return
	}

	msg := fmt.Sprintf(format, args...)
	ts := l.now()

	switch l.format {
	case JSONFormat:
		line, err := json.Marshal(struct {
			Time  string `json:"time"`
			Level string `json:"level"`
			Msg   string `json:"msg"`
		}{ts.Format(time.RFC3339), level.String(), msg})
		if err != nil {
			return
		}
		fmt.Fprintf(l.out, "%s\n", line)
	case ColorFormat:
		fmt.Fprintf(l.out, "%s\n", colorize(level, msg))
	default:
		fmt.Fprintf(l.out, "[%s] %s: %s\n", ts.Format("2006-01-02 15:04:05"), level, msg)
	}
}

func colorize(level Level, msg string) string {
	switch level {
	case DebugLevel:
		return color.HiBlackString("[DEBUG] %s", msg)
	case WarnLevel:
		return color.HiYellowString("[WARN] %s", msg)
	case ErrorLevel:
		return color.HiRedString("[ERROR] %s", msg)
	default:
		return color.HiGreenString("[INFO] %s", msg)
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) { l.log(DebugLevel, format, args...) }

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) { l.log(InfoLevel, format, args...) }

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...any) { l.log(WarnLevel, format, args...) }

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) { l.log(ErrorLevel, format, args...) }

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or a default info logger.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*Logger); ok && l != nil {
			return l
		}
	}
	return New(InfoLevel)
}

// DebugContext logs a debug message with the logger from ctx.
func DebugContext(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debug(format, args...)
}

// WarnContext logs a warning with the logger from ctx.
func WarnContext(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warn(format, args...)
}
