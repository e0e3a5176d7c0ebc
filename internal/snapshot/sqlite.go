package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id               TEXT PRIMARY KEY,
    artist_name      TEXT NOT NULL,
    channel_id       TEXT NOT NULL,
    channel_title    TEXT NOT NULL,
    subscriber_count INTEGER NOT NULL,
    video_count      INTEGER NOT NULL,
    views            INTEGER NOT NULL,
    likes            INTEGER NOT NULL,
    comments         INTEGER NOT NULL,
    partial          INTEGER NOT NULL,
    anomaly_count    INTEGER NOT NULL,
    captured_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_artist ON snapshots(artist_name, captured_at);
`

// SQLiteStore is the bundled Store implementation backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open initializes or connects to the snapshot database at path.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts one snapshot.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO snapshots (
            id, artist_name, channel_id, channel_title,
            subscriber_count, video_count, views, likes, comments,
            partial, anomaly_count, captured_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID,
		snap.ArtistName,
		snap.ChannelID,
		snap.ChannelTitle,
		snap.SubscriberCount,
		snap.VideoCount,
		snap.Views,
		snap.Likes,
		snap.Comments,
		boolToInt(snap.Partial),
		snap.AnomalyCount,
		// Unix nanos keep ORDER BY captured_at time-correct; textual
		// timestamps with trimmed fractional zeros do not sort right.
		snap.CapturedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Recent returns the most recently captured snapshots, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, artist_name, channel_id, channel_title,
                subscriber_count, video_count, views, likes, comments,
                partial, anomaly_count, captured_at
         FROM snapshots
         ORDER BY captured_at DESC
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var partial int
		var capturedAt int64
		if err := rows.Scan(
			&snap.ID,
			&snap.ArtistName,
			&snap.ChannelID,
			&snap.ChannelTitle,
			&snap.SubscriberCount,
			&snap.VideoCount,
			&snap.Views,
			&snap.Likes,
			&snap.Comments,
			&partial,
			&snap.AnomalyCount,
			&capturedAt,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Partial = partial != 0
		snap.CapturedAt = time.Unix(0, capturedAt).UTC()
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snaps, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
