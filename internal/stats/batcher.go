// Package stats fetches raw engagement statistics in provider-sized batches
// and reduces them to a clean aggregate summary.
package stats

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"scoutradar/internal/youtube"
)

const (
	// DefaultChunkSize is the provider's hard per-request id ceiling.
	DefaultChunkSize = 50
	// DefaultWorkers bounds how many chunk requests run concurrently.
	DefaultWorkers = 4

	// chunkRetryDelay spaces the single per-chunk retry from the failure.
	chunkRetryDelay = 500 * time.Millisecond
)

// StatsClient is the slice of the provider the batcher needs.
type StatsClient interface {
	FetchVideoStats(ctx context.Context, videoIDs []string) (map[string]youtube.RawStats, error)
}

// Batcher fetches statistics for arbitrarily many video ids by splitting them
// into provider-sized chunks and issuing chunk requests from a bounded worker
// pool.
type Batcher struct {
	client    StatsClient
	chunkSize int
	workers   int
	logger    *slog.Logger
}

// NewBatcher creates a Batcher. Out-of-range chunk sizes are clamped to the
// provider ceiling; workers <= 0 falls back to DefaultWorkers.
func NewBatcher(client StatsClient, chunkSize, workers int, logger *slog.Logger) *Batcher {
	if chunkSize <= 0 || chunkSize > DefaultChunkSize {
		chunkSize = DefaultChunkSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Batcher{client: client, chunkSize: chunkSize, workers: workers, logger: logger}
}

// FetchStats returns raw statistics keyed by video id, plus the ids that were
// abandoned because their chunk failed. Chunks are isolated: a failed chunk
// (after one bounded retry on transient errors) leaves its ids out of the
// map without affecting sibling chunks. Caller cancellation skips the chunks
// not yet started and returns what completed.
func (b *Batcher) FetchStats(ctx context.Context, videoIDs []string) (map[string]youtube.RawStats, []string) {
	merged := make(map[string]youtube.RawStats, len(videoIDs))
	var failed []string
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(b.workers)

	for start := 0; start < len(videoIDs); start += b.chunkSize {
		end := start + b.chunkSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		chunk := videoIDs[start:end]

		g.Go(func() error {
			if ctx.Err() != nil {
				mu.Lock()
				failed = append(failed, chunk...)
				mu.Unlock()
				return nil
			}

			stats, err := b.fetchChunk(ctx, chunk)
			if err != nil {
				b.logger.Warn("stats chunk abandoned",
					"chunk_size", len(chunk),
					"error", err,
				)
				mu.Lock()
				failed = append(failed, chunk...)
				mu.Unlock()
				return nil
			}

			mu.Lock()
			for id, s := range stats {
				merged[id] = s
			}
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait hands map ownership back to the caller.
	_ = g.Wait()

	return merged, failed
}

// fetchChunk issues one chunk request with a single bounded retry on
// transient failures. Rate-limit backoff already happened inside the client;
// this retry covers the chunk that still failed after it.
func (b *Batcher) fetchChunk(ctx context.Context, chunk []string) (map[string]youtube.RawStats, error) {
	stats, err := b.client.FetchVideoStats(ctx, chunk)
	if err == nil {
		return stats, nil
	}
	if !youtube.IsTransient(err) {
		return nil, err
	}

	timer := time.NewTimer(chunkRetryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return b.client.FetchVideoStats(ctx, chunk)
}
