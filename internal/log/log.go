// Package log provides structured logging for initflags.
// Entries carry a level, a category and key=value fields. Debug entries are
// gated per category by a filter, which the CLI backs with the init flag tags.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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

// Category groups related log messages. The category name doubles as the
// debug logging tag.
type Category string

const (
	CatFlags  Category = "flags"  // Init flag parsing
	CatConfig Category = "config" // Configuration loading/saving
	CatCmd    Category = "cmd"    // CLI commands
)

// DebugFilter decides whether debug entries for a tag are written.
type DebugFilter func(tag string) bool

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	path     string // set when the logger owns a file opened by Init
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	filter   DebugFilter
}

var (
	defaultLogger atomic.Pointer[Logger]
	initMu        sync.Mutex
)

// Init initializes the global logger writing to the file at path.
// Calling Init again with the same path reuses the open file; a different
// path is an error while the first file is still the active output.
// Returns a cleanup function to close the log file.
func Init(path string) (func(), error) {
	initMu.Lock()
	defer initMu.Unlock()

	if cur := defaultLogger.Load(); cur != nil && cur.hasFile() {
		if cur.path != path {
			return nil, fmt.Errorf("logger already writing to %s", cur.path)
		}
		return cur.close, nil
	}

	l, err := newLogger(path)
	if err != nil {
		return nil, err
	}
	defaultLogger.Store(l)
	return l.close, nil
}

func newLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G304: path is user-controlled debug log path
	if err != nil {
		return nil, err
	}

	return &Logger{
		path:     path,
		file:     f,
		writer:   f,
		enabled:  true,
		minLevel: LevelDebug,
	}, nil
}

func (l *Logger) hasFile() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file != nil
}

func (l *Logger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
		l.writer = nil
	}
}

// SetOutput replaces the global logger with one writing to w.
// Passing nil disables logging entirely.
func SetOutput(w io.Writer) {
	initMu.Lock()
	defer initMu.Unlock()

	if w == nil {
		defaultLogger.Store(nil)
		return
	}
	defaultLogger.Store(&Logger{
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
	})
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := defaultLogger.Load(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if l := defaultLogger.Load(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// SetDebugFilter installs the per-category debug gate.
// A nil filter lets every debug entry through.
func SetDebugFilter(filter DebugFilter) {
	if l := defaultLogger.Load(); l != nil {
		l.mu.Lock()
		l.filter = filter
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	l := defaultLogger.Load()
	if l == nil {
		return
	}

	l.mu.Lock()
	enabled, minLevel, filter := l.enabled, l.minLevel, l.filter
	l.mu.Unlock()

	if !enabled || level < minLevel {
		return
	}
	// The filter may call back into code that logs, so it runs unlocked.
	if level == LevelDebug && filter != nil && !filter(string(cat)) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writer != nil {
		_, _ = io.WriteString(l.writer, format(time.Now(), level, cat, msg, fields))
	}
}

// format renders an entry as:
// 2025-12-06T10:45:00 [ERROR] [config] message key=value key2=value2
func format(ts time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	// Odd field count: orphan key with no value
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')
	return b.String()
}
