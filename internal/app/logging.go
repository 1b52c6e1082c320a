package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dshills/casement/internal/config"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown names yield
// LogLevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger is a leveled logger with printf-style messages. Each line names
// the component that wrote it, so the compositor, the render loop and the
// config watcher can share one log file. Child loggers share the parent's
// sink.
type Logger struct {
	out       *sink
	prefix    string
	component string
	fields    map[string]any
	disabled  bool
}

// sink serializes writes from a logger and all of its children, which
// also share its level.
type sink struct {
	mu    sync.Mutex
	w     io.Writer
	level LogLevel
	now   func() time.Time
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	Level LogLevel
	// Output defaults to os.Stderr.
	Output io.Writer
	// Prefix names the program and leads every component path.
	Prefix string
	// Now stamps each line. Defaults to time.Now.
	Now func() time.Time
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LogLevelInfo,
		Output: os.Stderr,
		Prefix: "casement",
	}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LoggerConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Logger{
		out:    &sink{w: cfg.Output, level: cfg.Level, now: cfg.Now},
		prefix: cfg.Prefix,
	}
}

// OpenLogFile creates a logger appending to the file named by cfg. The
// terminal belongs to the compositor, so the log never goes to stdout.
// The returned closer releases the file.
func OpenLogFile(cfg config.LogConfig) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	lc := DefaultLoggerConfig()
	lc.Level = ParseLogLevel(cfg.Level)
	lc.Output = f
	return NewLogger(lc), f, nil
}

func (l *Logger) child(component string, fields map[string]any) *Logger {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	c := &Logger{
		out:       l.out,
		prefix:    l.prefix,
		component: l.component,
		disabled:  l.disabled,
	}
	if component != "" {
		if c.component != "" {
			component = c.component + "/" + component
		}
		c.component = component
	}
	if len(l.fields)+len(fields) > 0 {
		c.fields = make(map[string]any, len(l.fields)+len(fields))
		for k, v := range l.fields {
			c.fields[k] = v
		}
		for k, v := range fields {
			c.fields[k] = v
		}
	}
	return c
}

// WithField returns a child logger that appends key=value to every line.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.child("", map[string]any{key: value})
}

// WithComponent returns a child logger for a subsystem. Nested components
// are joined with a slash, as in "casement/compositor/flash".
func (l *Logger) WithComponent(component string) *Logger {
	return l.child(component, nil)
}

// SetLevel sets the minimum level of this logger and every logger derived
// from the same root.
func (l *Logger) SetLevel(level LogLevel) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.level = level
}

// Level returns the minimum level.
func (l *Logger) Level() LogLevel {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return l.out.level
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LogLevelError, msg, args...)
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if l == nil || l.out == nil {
		return
	}
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.disabled || level < l.out.level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	b.WriteString(l.out.now().Format("2006-01-02T15:04:05.000"))
	fmt.Fprintf(&b, " %-5s ", level)
	if src := l.source(); src != "" {
		b.WriteString(src)
		b.WriteString(": ")
	}
	b.WriteString(msg)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
		}
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.out.w, b.String())
}

// source names the writer of a line: prefix and component joined by a
// slash, or whichever of the two is set.
func (l *Logger) source() string {
	switch {
	case l.prefix == "":
		return l.component
	case l.component == "":
		return l.prefix
	default:
		return l.prefix + "/" + l.component
	}
}

// NullLogger is a logger that discards all output.
var NullLogger = &Logger{out: &sink{w: io.Discard, now: time.Now}, disabled: true}
