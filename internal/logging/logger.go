package logging

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(LevelInfo))
}

// SetLevel sets the minimum level from its name (debug, info, warn, error).
// Unknown names fall back to info.
func SetLevel(name string) {
	minLevel.Store(int32(ParseLevel(name)))
}

func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func enabled(l Level) bool {
	return int32(l) >= minLevel.Load()
}

// requestIDKey is the key used to store request ID in context
type requestIDKey struct{}

// WithRequestID stores the request ID in a standard context
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID from a standard context
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging for services
type Logger struct {
	requestID string
}

// New creates a logger with request context
func New(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{requestID: requestID}
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	if enabled(LevelError) {
		log.Printf("[error] request_id=%s operation=%s error=%v", l.requestID, operation, err)
	}
}

// LogErrorf logs a formatted error with context
func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	if enabled(LevelError) {
		log.Printf("[error] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
	}
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation string, message string) {
	if enabled(LevelInfo) {
		log.Printf("[info] request_id=%s operation=%s message=%s", l.requestID, operation, message)
	}
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	if enabled(LevelInfo) {
		log.Printf("[info] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
	}
}

// LogWarn logs a warning with context
func (l *Logger) LogWarn(operation string, message string) {
	if enabled(LevelWarn) {
		log.Printf("[warn] request_id=%s operation=%s message=%s", l.requestID, operation, message)
	}
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	if enabled(LevelWarn) {
		log.Printf("[warn] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
	}
}

// LogDebugf logs a formatted debug message with context
func (l *Logger) LogDebugf(operation string, format string, args ...interface{}) {
	if enabled(LevelDebug) {
		log.Printf("[debug] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
	}
}
