package internal

import (
	"log"
	"os"
	"strings"
)

// LogLevel orders verbosity from Error up to Debug
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger is a thin leveled wrapper over the stdlib logger. The search
// engines emit per-expansion and per-generation detail at Debug; run
// lifecycle events land at Info.
type Logger struct {
	level LogLevel
}

// NewLogger returns a logger emitting messages at or below level
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level}
}

// NewDefaultLogger reads the level from LOG_LEVEL, defaulting to Info
func NewDefaultLogger() *Logger {
	return &Logger{level: levelFromEnv(os.Getenv("LOG_LEVEL"))}
}

func levelFromEnv(name string) LogLevel {
	switch strings.ToUpper(name) {
	case "ERROR":
		return LogLevelError
	case "WARN":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// Error logs failures that abort a fit or a request
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Warn logs recoverable oddities
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Info logs run lifecycle events
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Debug logs per-step search detail
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}
