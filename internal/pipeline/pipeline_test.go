package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoutradar/internal/youtube"
)

// fakeProvider scripts the full provider surface for one artist.
type fakeProvider struct {
	mu sync.Mutex

	channels    []youtube.ChannelStub
	channelsErr error
	videos      []youtube.VideoStub
	videosErr   error

	pages      map[string]youtube.VideoPage // keyed by page token, "" = first
	pagesErr   error
	profile    *youtube.ChannelProfile
	profileErr error
	stats      map[string]youtube.RawStats
	statsErr   error

	searchCalls int
}

func (f *fakeProvider) SearchChannels(ctx context.Context, name string, maxResults int) ([]youtube.ChannelStub, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	return f.channels, f.channelsErr
}

func (f *fakeProvider) SearchVideos(ctx context.Context, name string, maxResults int) ([]youtube.VideoStub, error) {
	return f.videos, f.videosErr
}

func (f *fakeProvider) ListChannelVideos(ctx context.Context, channelID string, pageSize int, pageToken string) (youtube.VideoPage, error) {
	if f.pagesErr != nil {
		return youtube.VideoPage{}, f.pagesErr
	}
	return f.pages[pageToken], nil
}

func (f *fakeProvider) FetchVideoStats(ctx context.Context, videoIDs []string) (map[string]youtube.RawStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	out := make(map[string]youtube.RawStats, len(videoIDs))
	for _, id := range videoIDs {
		if s, ok := f.stats[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (f *fakeProvider) FetchChannelProfile(ctx context.Context, channelID string) (*youtube.ChannelProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func mustRawStats(payload string) youtube.RawStats {
	var stats youtube.RawStats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		panic(fmt.Sprintf("bad test payload %s: %v", payload, err))
	}
	return stats
}

func happyProvider() *fakeProvider {
	return &fakeProvider{
		channels: []youtube.ChannelStub{{ID: "UC1", Title: "insyt."}},
		videos: []youtube.VideoStub{
			{VideoID: "v1", ChannelID: "UC1", ChannelTitle: "insyt."},
		},
		pages: map[string]youtube.VideoPage{
			"": {IDs: []string{"v1", "v2"}},
		},
		profile: &youtube.ChannelProfile{
			ID:              "UC1",
			Title:           "insyt.",
			SubscriberCount: 1200,
			PublishedAt:     time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		stats: map[string]youtube.RawStats{
			"v1": mustRawStats(`{"viewCount": "100", "likeCount": "10", "commentCount": "5"}`),
			"v2": mustRawStats(`{"viewCount": "50", "likeCount": "5", "commentCount": "1"}`),
		},
	}
}

func newPipeline(t *testing.T, provider Provider) *Pipeline {
	t.Helper()
	p, err := New(provider, DefaultConfig(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return p
}

func TestRun_EndToEnd(t *testing.T) {
	p := newPipeline(t, happyProvider())

	result, err := p.Run(context.Background(), "insyt.")

	require.NoError(t, err)
	assert.Equal(t, "UC1", result.Artist.ID)
	assert.Equal(t, "insyt.", result.Artist.Title)
	assert.Equal(t, int64(150), result.Summary.Views)
	assert.Equal(t, int64(15), result.Summary.Likes)
	assert.Equal(t, int64(6), result.Summary.Comments)
	assert.False(t, result.Partial)
	assert.Empty(t, result.Anomalies)
}

func TestRun_NoCandidatesIsNotFound(t *testing.T) {
	provider := &fakeProvider{}
	p := newPipeline(t, provider)

	result, err := p.Run(context.Background(), "nobody")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArtistNotFound))
	assert.Nil(t, result)
}

func TestRun_ZeroMetricsIsSuccessNotNotFound(t *testing.T) {
	provider := happyProvider()
	provider.pages = map[string]youtube.VideoPage{"": {}}
	provider.stats = nil
	p := newPipeline(t, provider)

	result, err := p.Run(context.Background(), "insyt.")

	require.NoError(t, err, "an artist with zero engagement is a valid zero state")
	assert.Equal(t, int64(0), result.Summary.Views)
	assert.False(t, result.Partial)
}

func TestRun_ProfileFetchFailureDegradesToPartial(t *testing.T) {
	provider := happyProvider()
	provider.profileErr = errors.New("profile endpoint down")
	p := newPipeline(t, provider)

	result, err := p.Run(context.Background(), "insyt.")

	require.NoError(t, err)
	assert.True(t, result.Partial)
	assert.Equal(t, "UC1", result.Artist.ID)
	assert.Equal(t, "insyt.", result.Artist.Title, "display name from discovery backfills the profile")
	assert.Equal(t, int64(150), result.Summary.Views, "stats still aggregate")
}

func TestRun_FailedStatsChunksFlagPartial(t *testing.T) {
	provider := happyProvider()
	provider.statsErr = &youtube.APIError{StatusCode: 403, Message: "quota exceeded"}
	p := newPipeline(t, provider)

	result, err := p.Run(context.Background(), "insyt.")

	require.NoError(t, err)
	assert.True(t, result.Partial)
	assert.Equal(t, int64(0), result.Summary.Views)
}

func TestRun_AnomaliesSurfaceWithAttribution(t *testing.T) {
	provider := happyProvider()
	provider.stats["v2"] = mustRawStats(`{"viewCount": "N/A"}`)
	p := newPipeline(t, provider)

	result, err := p.Run(context.Background(), "insyt.")

	require.NoError(t, err)
	require.Len(t, result.Anomalies, 1)
	assert.Equal(t, "v2", result.Anomalies[0].VideoID)
	assert.Equal(t, int64(100), result.Summary.Views, "the malformed record is skipped, not fatal")
	assert.False(t, result.Partial, "anomalies are reported but do not mark the run partial")
}

func TestRun_SecondRunHitsResolutionCache(t *testing.T) {
	provider := happyProvider()
	p := newPipeline(t, provider)

	_, err := p.Run(context.Background(), "insyt.")
	require.NoError(t, err)
	_, err = p.Run(context.Background(), "insyt.")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.searchCalls, "the second run resolves from the cache")
}

func TestRun_NotFoundIsNotCached(t *testing.T) {
	provider := &fakeProvider{}
	p := newPipeline(t, provider)

	_, err := p.Run(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrArtistNotFound)

	// The artist may appear later; a second run must search again.
	_, err = p.Run(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrArtistNotFound)
	assert.Equal(t, 2, provider.searchCalls)
}
