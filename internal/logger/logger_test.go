package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestLoggerCapturesEntries(t *testing.T) {
	l := NewTestLogger()
	ctx := context.Background()

	l.Info(ctx, "trial finished", map[string]interface{}{"trial": 1, "result": "PASS"})
	l.Error(ctx, "snapshot failed", nil)

	entries := l.Entries()
	assert.Len(t, entries, 2)
	assert.Equal(t, "info", entries[0].Level)
	assert.Equal(t, "trial finished", entries[0].Message)
	assert.Equal(t, "PASS", entries[0].Fields["result"])
	assert.Equal(t, "error", entries[1].Level)
}

func TestTestLoggerWithFieldsMerges(t *testing.T) {
	base := NewTestLogger()
	derived := base.WithField("run_id", "abc").WithFields(map[string]interface{}{"trial": 3})

	derived.Info(context.Background(), "msg", map[string]interface{}{"extra": true})

	entries := base.Entries()
	assert.Len(t, entries, 1, "derived loggers share the capture buffer")
	assert.Equal(t, "abc", entries[0].Fields["run_id"])
	assert.Equal(t, 3, entries[0].Fields["trial"])
	assert.Equal(t, true, entries[0].Fields["extra"])
}

func TestTestLoggerHasEntry(t *testing.T) {
	l := NewTestLogger()
	l.Warn(context.Background(), "no nodes extracted, retrying", nil)

	assert.True(t, l.HasEntry("warn", "retrying"))
	assert.False(t, l.HasEntry("error", "retrying"))
	assert.False(t, l.HasEntry("warn", "unrelated"))
}

func TestNewLogrusLoggerLevels(t *testing.T) {
	l := NewLogrusLogger("debug", "json")
	assert.NotNil(t, l)

	// Unknown level falls back to info rather than failing.
	l = NewLogrusLogger("nonsense", "text")
	assert.NotNil(t, l)
	l.Info(context.Background(), "still works", nil)
}
