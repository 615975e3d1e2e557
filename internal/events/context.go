package events

import (
	"context"
	"os"
)

type contextKey int

const (
	loggerKey contextKey = iota
	syncIDKey
	deviceIDKey
)

// FromContext extracts logger from context.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}
	// Return default logger
	return defaultLogger
}

// WithLogger adds logger to context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithSyncID adds the current sync run ID to context.
func WithSyncID(ctx context.Context, id string) context.Context {
	logger := FromContext(ctx).WithField("sync_id", id)
	ctx = context.WithValue(ctx, syncIDKey, id)
	return WithLogger(ctx, logger)
}

// WithDeviceID adds the device ID to context.
func WithDeviceID(ctx context.Context, id string) context.Context {
	logger := FromContext(ctx).WithField("device_id", id)
	ctx = context.WithValue(ctx, deviceIDKey, id)
	return WithLogger(ctx, logger)
}

// GetSyncID retrieves the sync run ID from context.
func GetSyncID(ctx context.Context) string {
	if id, ok := ctx.Value(syncIDKey).(string); ok {
		return id
	}
	return ""
}

// GetDeviceID retrieves the device ID from context.
func GetDeviceID(ctx context.Context) string {
	if id, ok := ctx.Value(deviceIDKey).(string); ok {
		return id
	}
	return ""
}

var defaultLogger = &Logger{
	level:  InfoLevel,
	format: "text",
	output: os.Stdout,
	fields: make(map[string]interface{}),
}

// SetDefault sets the default logger.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
