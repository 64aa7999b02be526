package logger

import "context"

// Logger is the structured logging interface used across the harness.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})

	// WithField returns a logger that adds the field to every entry.
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger that adds all fields to every entry.
	WithFields(fields map[string]interface{}) Logger
}
