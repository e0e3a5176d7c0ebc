// Package pipeline orchestrates artist resolution and stats aggregation:
// name -> candidates -> resolved channel -> video ids -> raw stats -> summary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"scoutradar/internal/catalog"
	"scoutradar/internal/resolve"
	"scoutradar/internal/stats"
	"scoutradar/internal/youtube"
)

// ErrArtistNotFound is the terminal sentinel for a name no candidate could be
// resolved for. It is the only terminal failure the pipeline produces after
// configuration; everything below resolution degrades to partial results.
var ErrArtistNotFound = errors.New("artist not found")

// Config carries the tunable constants of the pipeline. Zero values fall back
// to the documented defaults.
type Config struct {
	// MaxResultsPerQuery bounds each discovery query.
	MaxResultsPerQuery int
	// PageSize bounds each video listing page (provider ceiling 50).
	PageSize int
	// ChunkSize bounds each statistics request (provider ceiling 50).
	ChunkSize int
	// Workers bounds concurrent statistics chunk requests.
	Workers int
	// CacheSize bounds the name -> channel id resolution cache.
	CacheSize int
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		MaxResultsPerQuery: resolve.DefaultMaxPerQuery,
		PageSize:           catalog.DefaultPageSize,
		ChunkSize:          stats.DefaultChunkSize,
		Workers:            stats.DefaultWorkers,
		CacheSize:          128,
	}
}

// Provider is the full capability surface the pipeline consumes.
type Provider interface {
	resolve.SearchClient
	catalog.ListClient
	stats.StatsClient
	FetchChannelProfile(ctx context.Context, channelID string) (*youtube.ChannelProfile, error)
}

// Result is the pipeline's durable output: the resolved profile, the
// aggregate summary, and the partial/anomaly attribution a caller needs to
// tell a complete result from a degraded one. A zero Summary with
// Partial=false is a genuine "artist with no engagement", never a silent
// failure.
type Result struct {
	Artist    youtube.ChannelProfile `json:"artist"`
	Summary   stats.Summary          `json:"summary"`
	Partial   bool                   `json:"partial"`
	Anomalies []stats.Anomaly        `json:"-"`
}

// Pipeline wires the resolution and aggregation stages over one provider.
type Pipeline struct {
	provider   Provider
	discoverer *resolve.Discoverer
	enumerator *catalog.Enumerator
	batcher    *stats.Batcher
	cache      *lru.Cache[string, string]
	logger     *slog.Logger
}

// New creates a Pipeline from a provider and config.
func New(provider Provider, cfg Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	cache, err := lru.New[string, string](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create resolution cache: %w", err)
	}

	return &Pipeline{
		provider:   provider,
		discoverer: resolve.NewDiscoverer(provider, cfg.MaxResultsPerQuery, logger),
		enumerator: catalog.NewEnumerator(provider, cfg.PageSize, logger),
		batcher:    stats.NewBatcher(provider, cfg.ChunkSize, cfg.Workers, logger),
		cache:      cache,
		logger:     logger,
	}, nil
}

// Run resolves name to a channel and aggregates engagement across all of its
// videos. Returns ErrArtistNotFound when no candidate resolves; any other
// trouble below the resolution stage is absorbed into a partial result.
func (p *Pipeline) Run(ctx context.Context, name string) (*Result, error) {
	channelID, displayName, err := p.resolveChannel(ctx, name)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	profile, err := p.provider.FetchChannelProfile(ctx, channelID)
	if err != nil {
		// The identity is already resolved; a failed profile lookup
		// degrades the record instead of failing the run.
		p.logger.Warn("profile fetch failed", "channel_id", channelID, "error", err)
		if displayName == "" {
			displayName = name
		}
		profile = &youtube.ChannelProfile{ID: channelID, Title: displayName}
		result.Partial = true
	}
	result.Artist = *profile

	videoIDs, partial := p.enumerator.Enumerate(ctx, channelID)
	result.Partial = result.Partial || partial

	raw, failed := p.batcher.FetchStats(ctx, videoIDs)
	result.Partial = result.Partial || len(failed) > 0

	result.Summary, result.Anomalies = stats.Summarize(raw)

	p.logger.Info("aggregation complete",
		"artist", name,
		"channel_id", channelID,
		"videos", len(videoIDs),
		"stats_missing", len(failed),
		"anomalies", len(result.Anomalies),
		"partial", result.Partial,
	)

	return result, nil
}

// resolveChannel returns the channel id for name, via the cache when a prior
// run of this process already resolved it. The display name is best-effort:
// empty on a cache hit.
func (p *Pipeline) resolveChannel(ctx context.Context, name string) (id, displayName string, err error) {
	if id, ok := p.cache.Get(name); ok {
		p.logger.Debug("resolution cache hit", "artist", name, "channel_id", id)
		return id, "", nil
	}

	set := p.discoverer.Discover(ctx, name)
	id, ok := resolve.Select(set, name)
	if !ok {
		return "", "", fmt.Errorf("%q: %w", name, ErrArtistNotFound)
	}

	p.cache.Add(name, id)
	return id, set[id].DisplayName, nil
}
