package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	runID := uuid.New().String()

	require.NoError(t, store.Record(ctx, Record{
		RunID:    runID,
		File:     "a.http",
		Outcome:  "pass",
		Duration: 120 * time.Millisecond,
	}))
	require.NoError(t, store.Record(ctx, Record{
		RunID:    runID,
		File:     "b.http",
		Outcome:  "fail",
		Duration: 80 * time.Millisecond,
		Failures: 2,
	}))

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "b.http", records[0].File)
	assert.Equal(t, "fail", records[0].Outcome)
	assert.Equal(t, 2, records[0].Failures)
	assert.Equal(t, 80*time.Millisecond, records[0].Duration)
	assert.Equal(t, runID, records[0].RunID)
	assert.Equal(t, "a.http", records[1].File)
}

func TestStore_RecentLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Record{RunID: "r", File: "f.http", Outcome: "pass"}))
	}

	records, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
