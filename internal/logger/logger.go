package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// Logger wraps a zap logger with automatic redaction of sensitive values
type Logger struct {
	mu     sync.RWMutex
	level  zap.AtomicLevel
	sugar  *zap.SugaredLogger
	isDev  bool
	redact bool
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Initialize sets up the default logger instance
func Initialize(level LogLevel, isDev bool) {
	once.Do(func() {
		defaultLogger = New(level, isDev)
	})
}

// New builds a standalone logger. Development mode uses zap's console
// encoder; production emits JSON.
func New(level LogLevel, isDev bool) *Logger {
	var cfg zap.Config
	if isDev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	atom := zap.NewAtomicLevelAt(toZapLevel(level))
	cfg.Level = atom

	base, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		base = zap.NewNop()
	}

	return &Logger{
		level:  atom,
		sugar:  base.Sugar(),
		isDev:  isDev,
		redact: !isDev || level > DEBUG,
	}
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *Logger {
	return &Logger{
		level:  zap.NewAtomicLevelAt(zapcore.DebugLevel),
		sugar:  zap.NewNop().Sugar(),
		redact: true,
	}
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	if defaultLogger == nil {
		// Initialize with default settings if not already done
		Initialize(INFO, false)
	}
	return defaultLogger
}

// SetLevel updates the log level
func SetLevel(level LogLevel) {
	l := GetLogger()
	l.mu.Lock()
	l.level.SetLevel(toZapLevel(level))
	l.redact = !l.isDev || level > DEBUG
	l.mu.Unlock()
}

// Sync flushes any buffered log entries
func Sync() error {
	return GetLogger().sugar.Sync()
}

func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// redactEmail redacts email addresses for privacy
func redactEmail(email string) string {
	if email == "" {
		return ""
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "****"
	}

	local := parts[0]
	domain := parts[1]

	if len(local) <= 2 {
		return "****@" + domain
	}

	return local[0:1] + "****" + local[len(local)-1:] + "@" + domain
}

// truncateID keeps only the head of long opaque identifiers
func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "****"
}

// redactValue redacts sensitive values based on the key name
func redactValue(key string, value interface{}) interface{} {
	keyLower := strings.ToLower(key)

	// Password and hash complete redaction
	if strings.Contains(keyLower, "password") || strings.Contains(keyLower, "hash") || strings.Contains(keyLower, "api_key") {
		return "[REDACTED]"
	}

	valueStr := fmt.Sprintf("%v", value)

	// Receipt QR payloads carry the fiscal document id
	if strings.Contains(keyLower, "qr") || strings.Contains(keyLower, "receipt_url") {
		return truncateID(valueStr)
	}

	// Email redaction
	if strings.Contains(keyLower, "email") || strings.Contains(valueStr, "@") {
		return redactEmail(valueStr)
	}

	if strings.Contains(keyLower, "token") || strings.Contains(keyLower, "session") {
		return truncateID(valueStr)
	}

	return value
}

// fields applies redaction to alternating key/value pairs
func (l *Logger) fields(keysAndValues []interface{}) []interface{} {
	l.mu.RLock()
	redact := l.redact
	l.mu.RUnlock()

	if !redact || len(keysAndValues) == 0 {
		return keysAndValues
	}

	out := make([]interface{}, len(keysAndValues))
	copy(out, keysAndValues)
	for i := 0; i+1 < len(out); i += 2 {
		out[i+1] = redactValue(fmt.Sprintf("%v", out[i]), out[i+1])
	}
	return out
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, l.fields(keysAndValues)...)
}

// Info logs an info message
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, l.fields(keysAndValues)...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, l.fields(keysAndValues)...)
}

// Error logs an error message
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, l.fields(keysAndValues)...)
}

// Package-level convenience functions

// Debug logs a debug message using the default logger
func Debug(msg string, keysAndValues ...interface{}) {
	GetLogger().Debug(msg, keysAndValues...)
}

// Info logs an info message using the default logger
func Info(msg string, keysAndValues ...interface{}) {
	GetLogger().Info(msg, keysAndValues...)
}

// Warn logs a warning message using the default logger
func Warn(msg string, keysAndValues ...interface{}) {
	GetLogger().Warn(msg, keysAndValues...)
}

// Error logs an error message using the default logger
func Error(msg string, keysAndValues ...interface{}) {
	GetLogger().Error(msg, keysAndValues...)
}

// ParseLevel converts a string to a LogLevel
func ParseLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}
