// Package debug provides the leveled logger and render-time profiler used
// by the command-line front ends. Nothing in this package is called from
// the audio callback.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelOff
)

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
		return "OFF"
	}
}

// Logger writes timestamped leveled messages. The terminal front end logs
// to a file because stderr is owned by the screen.
type Logger struct {
	mu     sync.Mutex
	output io.Writer
	level  LogLevel
	prefix string
}

var defaultLogger = New(os.Stderr, "")

// New creates a logger writing to the given destination.
func New(output io.Writer, prefix string) *Logger {
	return &Logger{output: output, prefix: prefix, level: LogLevelInfo}
}

// NewFileLogger creates a logger appending to a file, creating parent
// directories as needed.
func NewFileLogger(filename, prefix string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, prefix), nil
}

// SetLevel sets the minimum severity that gets written.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetOutput redirects the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.output = w
	l.mu.Unlock()
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05.000 "))
	fmt.Fprintf(&sb, "[%s] ", level)
	if l.prefix != "" {
		fmt.Fprintf(&sb, "[%s] ", l.prefix)
	}
	msg := fmt.Sprintf(format, args...)
	sb.WriteString(msg)
	if !strings.HasSuffix(msg, "\n") {
		sb.WriteString("\n")
	}
	l.output.Write([]byte(sb.String()))
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(LogLevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(LogLevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(LogLevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(LogLevelError, format, args...) }

// Default returns the process-wide logger.
func Default() *Logger { return defaultLogger }

func SetLevel(level LogLevel)                     { defaultLogger.SetLevel(level) }
func SetOutput(w io.Writer)                       { defaultLogger.SetOutput(w) }
func Debug(format string, args ...interface{})    { defaultLogger.Debug(format, args...) }
func Info(format string, args ...interface{})     { defaultLogger.Info(format, args...) }
func Warn(format string, args ...interface{})     { defaultLogger.Warn(format, args...) }
func Error(format string, args ...interface{})    { defaultLogger.Error(format, args...) }
