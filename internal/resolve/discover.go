package resolve

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"scoutradar/internal/youtube"
)

// DefaultMaxPerQuery caps each discovery query's result count.
const DefaultMaxPerQuery = 10

// SearchClient is the slice of the provider the discoverer needs.
type SearchClient interface {
	SearchChannels(ctx context.Context, name string, maxResults int) ([]youtube.ChannelStub, error)
	SearchVideos(ctx context.Context, name string, maxResults int) ([]youtube.VideoStub, error)
}

// Discoverer runs the independent discovery queries for an artist name and
// merges their hits into one candidate set.
type Discoverer struct {
	client      SearchClient
	maxPerQuery int
	logger      *slog.Logger
}

// NewDiscoverer creates a Discoverer. maxPerQuery <= 0 falls back to
// DefaultMaxPerQuery.
func NewDiscoverer(client SearchClient, maxPerQuery int, logger *slog.Logger) *Discoverer {
	if maxPerQuery <= 0 {
		maxPerQuery = DefaultMaxPerQuery
	}
	return &Discoverer{client: client, maxPerQuery: maxPerQuery, logger: logger}
}

// Discover runs the channel search and the video search concurrently and
// merges the results. The two queries never abort each other: a failed query
// logs and contributes an empty partial result. An empty set is a valid,
// non-exceptional return; "no candidates" is decided by the caller.
func (d *Discoverer) Discover(ctx context.Context, name string) CandidateSet {
	var (
		channelHits []Hit
		contentHits []Hit
	)

	var g errgroup.Group

	g.Go(func() error {
		stubs, err := d.client.SearchChannels(ctx, name, d.maxPerQuery)
		if err != nil {
			d.logger.Warn("channel search failed", "artist", name, "error", err)
			return nil
		}
		for _, stub := range stubs {
			channelHits = append(channelHits, Hit{ID: stub.ID, DisplayName: stub.Title})
		}
		return nil
	})

	g.Go(func() error {
		stubs, err := d.client.SearchVideos(ctx, name, d.maxPerQuery)
		if err != nil {
			d.logger.Warn("video search failed", "artist", name, "error", err)
			return nil
		}
		for _, stub := range stubs {
			contentHits = append(contentHits, Hit{ID: stub.ChannelID, DisplayName: stub.ChannelTitle})
		}
		return nil
	})

	// Goroutines never return errors; Wait is the merge barrier that makes
	// this goroutine the sole owner of both partial results.
	_ = g.Wait()

	set := Merge(CandidateSet{}, channelHits, SourceSearch)
	set = Merge(set, contentHits, SourceContent)

	d.logger.Debug("discovery round complete",
		"artist", name,
		"channel_hits", len(channelHits),
		"content_hits", len(contentHits),
		"candidates", len(set),
	)

	return set
}
