package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Logger writes leveled diagnostic lines to .todo/logs/todo.log. The TUI
// owns the terminal, so nothing is ever written to stdout or stderr.
// A nil *Logger discards everything.
type Logger struct {
	file   *os.File
	logger *log.Logger
}

// New creates (or reuses) the log file at path.
func New(path string, level log.Level) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	l := NewWithWriter(f, level)
	l.file = f
	return l, nil
}

// NewWithWriter logs to w. Tests use it with a bytes.Buffer.
func NewWithWriter(w io.Writer, level log.Level) *Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		Prefix:          "todo",
	})
	return &Logger{logger: logger}
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Debug logs msg with key/value pairs at debug level.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debug(msg, keyvals...)
}

// Info logs msg with key/value pairs at info level.
func (l *Logger) Info(msg string, keyvals ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info(msg, keyvals...)
}

// Warn logs msg with key/value pairs at warn level.
func (l *Logger) Warn(msg string, keyvals ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Warn(msg, keyvals...)
}

// Error logs msg with key/value pairs at error level.
func (l *Logger) Error(msg string, keyvals ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Error(msg, keyvals...)
}
