package logger

import (
	"context"
	"strings"
	"sync"
)

// Entry is one log record captured by the test logger.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// TestLogger captures entries in memory for assertions. Loggers derived
// via WithField share the same capture buffer.
type TestLogger struct {
	core   *captureCore
	fields map[string]interface{}
}

type captureCore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTestLogger returns an empty capturing logger.
func NewTestLogger() *TestLogger {
	return &TestLogger{core: &captureCore{}, fields: map[string]interface{}{}}
}

func (l *TestLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("debug", msg, fields)
}

func (l *TestLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("info", msg, fields)
}

func (l *TestLogger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("warn", msg, fields)
}

func (l *TestLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("error", msg, fields)
}

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{core: l.core, fields: merged}
}

func (l *TestLogger) record(level, msg string, fields map[string]interface{}) {
	all := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}

	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.entries = append(l.core.entries, Entry{Level: level, Message: msg, Fields: all})
}

// Entries returns a copy of everything logged so far.
func (l *TestLogger) Entries() []Entry {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	out := make([]Entry, len(l.core.entries))
	copy(out, l.core.entries)
	return out
}

// HasEntry reports whether any captured entry at the given level contains
// the substring in its message.
func (l *TestLogger) HasEntry(level, substr string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
