package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoutradar/internal/pipeline"
	"scoutradar/internal/stats"
	"scoutradar/internal/youtube"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_SaveAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	snap := Snapshot{
		ID:              "snap-1",
		ArtistName:      "insyt.",
		ChannelID:       "UC123",
		ChannelTitle:    "insyt.",
		SubscriberCount: 1200,
		VideoCount:      34,
		Views:           45000,
		Likes:           3200,
		Comments:        410,
		Partial:         true,
		AnomalyCount:    2,
		CapturedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Save(ctx, snap))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, snap, got[0])
}

func TestSQLiteStore_RecentOrdersNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		snap := Snapshot{
			ID:         id,
			ArtistName: "x",
			ChannelID:  "UC1",
			CapturedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, store.Save(ctx, snap))
	}

	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
}

func TestSQLiteStore_RecentOrdersSubsecondCaptures(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// A half-second-later capture must sort after the whole-second one.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for _, snap := range []Snapshot{
		{ID: "later", ArtistName: "x", ChannelID: "UC1", CapturedAt: base.Add(500 * time.Millisecond)},
		{ID: "earlier", ArtistName: "x", ChannelID: "UC1", CapturedAt: base},
	} {
		require.NoError(t, store.Save(ctx, snap))
	}

	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "later", got[0].ID)
	assert.Equal(t, "earlier", got[1].ID)
}

func TestSQLiteStore_RecentOnEmptyStore(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Recent(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFromResult(t *testing.T) {
	result := &pipeline.Result{
		Artist: youtube.ChannelProfile{
			ID:              "UC123",
			Title:           "insyt.",
			SubscriberCount: 1200,
			VideoCount:      34,
		},
		Summary:   stats.Summary{Views: 100, Likes: 10, Comments: 1},
		Partial:   true,
		Anomalies: []stats.Anomaly{{VideoID: "v1"}},
	}

	snap := FromResult("insyt.", result)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "insyt.", snap.ArtistName)
	assert.Equal(t, "UC123", snap.ChannelID)
	assert.Equal(t, int64(100), snap.Views)
	assert.True(t, snap.Partial)
	assert.Equal(t, 1, snap.AnomalyCount)
	assert.False(t, snap.CapturedAt.IsZero())

	other := FromResult("insyt.", result)
	assert.NotEqual(t, snap.ID, other.ID, "every capture gets its own id")
}
