// Package snapshot persists the durable outputs of a pipeline run: the
// resolved artist profile and its aggregate engagement summary.
package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scoutradar/internal/pipeline"
)

// Snapshot is one captured pipeline result.
type Snapshot struct {
	ID              string    `json:"id"`
	ArtistName      string    `json:"artist_name"`
	ChannelID       string    `json:"channel_id"`
	ChannelTitle    string    `json:"channel_title"`
	SubscriberCount int64     `json:"subscriber_count"`
	VideoCount      int64     `json:"video_count"`
	Views           int64     `json:"views"`
	Likes           int64     `json:"likes"`
	Comments        int64     `json:"comments"`
	Partial         bool      `json:"partial"`
	AnomalyCount    int       `json:"anomaly_count"`
	CapturedAt      time.Time `json:"captured_at"`
}

// FromResult builds a Snapshot for the queried artist name from a pipeline
// result, stamping it with a fresh id and the current time.
func FromResult(artistName string, result *pipeline.Result) Snapshot {
	return Snapshot{
		ID:              uuid.NewString(),
		ArtistName:      artistName,
		ChannelID:       result.Artist.ID,
		ChannelTitle:    result.Artist.Title,
		SubscriberCount: result.Artist.SubscriberCount,
		VideoCount:      result.Artist.VideoCount,
		Views:           result.Summary.Views,
		Likes:           result.Summary.Likes,
		Comments:        result.Summary.Comments,
		Partial:         result.Partial,
		AnomalyCount:    len(result.Anomalies),
		CapturedAt:      time.Now().UTC(),
	}
}

// Store is the persistence collaborator the CLI hands results to.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Recent(ctx context.Context, limit int) ([]Snapshot, error)
	Close() error
}
