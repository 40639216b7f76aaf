package shared

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// ParseLevel maps a level name from configuration to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

// Logger provides leveled logging on top of the standard log package
type Logger struct {
	*log.Logger
	out   io.Writer
	level LogLevel
}

// DefaultLogger is the fallback logger for components built without one
var DefaultLogger *Logger

func init() {
	DefaultLogger = NewLogger(INFO)
}

// New creates a logger writing to the given sink
func New(out io.Writer, level LogLevel) *Logger {
	return &Logger{
		Logger: log.New(out, "", log.LstdFlags),
		out:    out,
		level:  level,
	}
}

// NewLogger creates a logger writing to stdout
func NewLogger(level LogLevel) *Logger {
	return New(os.Stdout, level)
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level <= DEBUG {
		l.Printf("[DEBUG] "+format, v...)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	if l.level <= INFO {
		l.Printf("[INFO] "+format, v...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	if l.level <= WARN {
		l.Printf("[WARN] "+format, v...)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	if l.level <= ERROR {
		l.Printf("[ERROR] "+format, v...)
	}
}

// WithComponent derives a logger whose lines carry a component tag
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: log.New(l.out, fmt.Sprintf("[%s] ", name)+l.Prefix(), l.Flags()),
		out:    l.out,
		level:  l.level,
	}
}
