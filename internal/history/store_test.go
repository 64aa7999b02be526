package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/webtrial/internal/harness"
	"github.com/mj1618/webtrial/internal/logger"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webtrial.db")
	store, err := NewSqliteStore(path, logger.NewTestLogger())
	require.NoError(t, err)
	return store
}

func sampleRun() *Run {
	now := time.Now()
	return &Run{
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
		Trials:     3,
		Passed:     1,
		Failed:     1,
		Errored:    1,
		MeanMS:     1500,
		P50MS:      1400,
		P90MS:      2100,
		P95MS:      2100,
		P99MS:      2100,
		CSVPath:    "webtrial-run-20250825-143005.csv",
	}
}

func TestSaveAndGetRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := sampleRun()
	require.NoError(t, store.SaveRun(ctx, run))
	assert.NotEmpty(t, run.ID, "BeforeCreate should assign an id")

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, 3, got.Trials)
	assert.Equal(t, 1, got.Passed)
	assert.Equal(t, int64(1500), got.MeanMS)
	assert.Equal(t, run.CSVPath, got.CSVPath)
}

func TestSaveRunKeepsCallerID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := sampleRun()
	run.ID = "11111111-2222-3333-4444-555555555555"
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "11111111-2222-3333-4444-555555555555")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run := sampleRun()
		run.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, store.SaveRun(ctx, run))
	}

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, !runs[0].CreatedAt.Before(runs[1].CreatedAt))
	assert.True(t, !runs[1].CreatedAt.Before(runs[2].CreatedAt))
}

func TestListRunsHonorsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveRun(ctx, sampleRun()))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestNewRunFromSummary(t *testing.T) {
	summary := &harness.RunSummary{
		RunID:      "run-1",
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
		Trials: []harness.Trial{
			{Seq: 1, Outcome: harness.OutcomePass, LatencyMS: 1000},
			{Seq: 2, Outcome: harness.OutcomeFail, LatencyMS: 2000},
		},
		Passed:  1,
		Failed:  1,
		Errored: 0,
		Stats:   harness.Stats{MeanMS: 1500, P50MS: 1000, P90MS: 2000, P95MS: 2000, P99MS: 2000},
	}

	run := NewRunFromSummary(summary, "out.csv")
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, 2, run.Trials)
	assert.Equal(t, 1, run.Passed)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, int64(1500), run.MeanMS)
	assert.Equal(t, int64(2000), run.P90MS)
	assert.Equal(t, "out.csv", run.CSVPath)
}
