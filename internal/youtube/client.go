package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://www.googleapis.com"

	// defaultMaxBackoff caps how long a rate-limited call will wait before
	// its single retry, regardless of what Retry-After asks for.
	defaultMaxBackoff = 30 * time.Second

	// defaultTimeout bounds each request attempt. A stalled attempt fails
	// on its own; callers decide what the failure costs them.
	defaultTimeout = 15 * time.Second
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithMaxBackoff caps the wait before the single rate-limit retry.
func WithMaxBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		c.maxBackoff = d
	}
}

// WithTimeout sets the deadline applied to each request attempt.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client is a YouTube Data API client authenticated by API key.
type Client struct {
	apiKey     string
	baseURL    string
	maxBackoff time.Duration
	timeout    time.Duration
	httpClient HTTPClient
}

// NewClient creates a new YouTube API client with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		maxBackoff: defaultMaxBackoff,
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SearchChannels searches for channels matching name, capped at maxResults.
func (c *Client) SearchChannels(ctx context.Context, name string, maxResults int) ([]ChannelStub, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "channel")
	params.Set("q", name)
	params.Set("maxResults", strconv.Itoa(maxResults))

	body, err := c.doRequest(ctx, "/youtube/v3/search", params)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse channel search response: %w", err)
	}

	stubs := make([]ChannelStub, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ID.ChannelID == "" {
			continue
		}
		stubs = append(stubs, ChannelStub{
			ID:    item.ID.ChannelID,
			Title: item.Snippet.Title,
		})
	}

	return stubs, nil
}

// SearchVideos searches for videos matching name, capped at maxResults. Each
// hit carries the ID and title of its owning channel.
func (c *Client) SearchVideos(ctx context.Context, name string, maxResults int) ([]VideoStub, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", name)
	params.Set("maxResults", strconv.Itoa(maxResults))

	body, err := c.doRequest(ctx, "/youtube/v3/search", params)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse video search response: %w", err)
	}

	stubs := make([]VideoStub, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ID.VideoID == "" || item.Snippet.ChannelID == "" {
			continue
		}
		stubs = append(stubs, VideoStub{
			VideoID:      item.ID.VideoID,
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}

	return stubs, nil
}

// ListChannelVideos returns one page of a channel's videos, newest first.
// Pass the NextPageToken of the previous page to continue; an empty token in
// the returned page means the listing is exhausted.
func (c *Client) ListChannelVideos(ctx context.Context, channelID string, pageSize int, pageToken string) (VideoPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("channelId", channelID)
	params.Set("order", "date")
	params.Set("maxResults", strconv.Itoa(pageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	body, err := c.doRequest(ctx, "/youtube/v3/search", params)
	if err != nil {
		return VideoPage{}, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return VideoPage{}, fmt.Errorf("failed to parse channel videos response: %w", err)
	}

	page := VideoPage{
		IDs:           make([]string, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		if item.ID.VideoID != "" {
			page.IDs = append(page.IDs, item.ID.VideoID)
		}
	}

	return page, nil
}

// FetchVideoStats retrieves raw statistics for up to 50 video IDs in a single
// request. IDs the API does not report (deleted or private videos) are absent
// from the returned map.
func (c *Client) FetchVideoStats(ctx context.Context, videoIDs []string) (map[string]RawStats, error) {
	if len(videoIDs) == 0 {
		return map[string]RawStats{}, nil
	}

	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", strings.Join(videoIDs, ","))

	body, err := c.doRequest(ctx, "/youtube/v3/videos", params)
	if err != nil {
		return nil, err
	}

	var response videosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse video stats response: %w", err)
	}

	stats := make(map[string]RawStats, len(response.Items))
	for _, item := range response.Items {
		if item.ID == "" {
			continue
		}
		stats[item.ID] = item.Statistics
	}

	return stats, nil
}

// FetchChannelProfile retrieves the full profile of a single channel.
func (c *Client) FetchChannelProfile(ctx context.Context, channelID string) (*ChannelProfile, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", channelID)

	body, err := c.doRequest(ctx, "/youtube/v3/channels", params)
	if err != nil {
		return nil, err
	}

	var response channelsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse channel profile response: %w", err)
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("channel %s not found", channelID)
	}

	item := response.Items[0]
	publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	subscribers, _ := strconv.ParseInt(item.Statistics.SubscriberCount, 10, 64)
	videos, _ := strconv.ParseInt(item.Statistics.VideoCount, 10, 64)

	return &ChannelProfile{
		ID:              item.ID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		PublishedAt:     publishedAt,
		SubscriberCount: subscribers,
		VideoCount:      videos,
	}, nil
}

// doRequest issues one GET and, on a rate-limit response, performs the single
// bounded backoff-and-retry before giving up on the unit of work.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	body, err := c.doOnce(ctx, path, params)
	if err == nil {
		return body, nil
	}

	var rle *RateLimitError
	if !errors.As(err, &rle) {
		return nil, err
	}

	if waitErr := c.backoff(ctx, rle.RetryAfter); waitErr != nil {
		return nil, waitErr
	}

	return c.doOnce(ctx, path, params)
}

// doOnce performs a single request attempt under its own deadline, so a
// stalled attempt fails without consuming the caller's whole budget.
func (c *Client) doOnce(ctx context.Context, path string, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp, body)
	}

	return body, nil
}

func (c *Client) backoff(ctx context.Context, retryAfter time.Duration) error {
	wait := retryAfter
	if wait <= 0 {
		wait = time.Second
	}
	if wait > c.maxBackoff {
		wait = c.maxBackoff
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) handleAPIError(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		var retryAfter time.Duration
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			retryAfter = time.Duration(secs) * time.Second
		}
		return &RateLimitError{RetryAfter: retryAfter}
	}

	message := "no details"
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message}
}

// API response types (private - implementation detail)

type searchResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID struct {
			ChannelID string `json:"channelId"`
			VideoID   string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelID    string `json:"channelId"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID         string   `json:"id"`
		Statistics RawStats `json:"statistics"`
	} `json:"items"`
}

type channelsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
			VideoCount      string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
