// Package catalog discovers every video owned by a resolved channel by
// walking the provider's continuation cursor.
package catalog

import (
	"context"
	"log/slog"

	"scoutradar/internal/youtube"
)

// DefaultPageSize is the provider's maximum page size for listing requests.
const DefaultPageSize = 50

// ListClient is the slice of the provider the enumerator needs.
type ListClient interface {
	ListChannelVideos(ctx context.Context, channelID string, pageSize int, pageToken string) (youtube.VideoPage, error)
}

// Enumerator pages through a channel's uploads.
type Enumerator struct {
	client   ListClient
	pageSize int
	logger   *slog.Logger
}

// NewEnumerator creates an Enumerator. pageSize <= 0 or > DefaultPageSize
// falls back to DefaultPageSize.
func NewEnumerator(client ListClient, pageSize int, logger *slog.Logger) *Enumerator {
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}
	return &Enumerator{client: client, pageSize: pageSize, logger: logger}
}

// Enumerate returns the channel's video ids in the order the provider yields
// them (newest first). Pages are fetched strictly sequentially: each request
// depends on the cursor returned by the previous one. Successive pages are
// disjoint by construction of the cursor, so no deduplication happens here.
//
// A failure on any page (timeout, transient error, caller cancellation) stops
// enumeration and returns everything accumulated so far with partial=true; a
// partial list is a usable result, never an error.
func (e *Enumerator) Enumerate(ctx context.Context, channelID string) (ids []string, partial bool) {
	ids = []string{}
	token := ""

	for {
		page, err := e.client.ListChannelVideos(ctx, channelID, e.pageSize, token)
		if err != nil {
			e.logger.Warn("video listing stopped early",
				"channel_id", channelID,
				"accumulated", len(ids),
				"error", err,
			)
			return ids, true
		}

		ids = append(ids, page.IDs...)

		if page.NextPageToken == "" {
			return ids, false
		}
		token = page.NextPageToken
	}
}
