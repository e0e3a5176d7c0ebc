package soundcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api-v2.soundcloud.com"

	// rateLimitDelay spaces the single retry after a 429.
	rateLimitDelay = 2 * time.Second

	// defaultTimeout bounds each request attempt.
	defaultTimeout = 15 * time.Second
)

// Chart kinds and a couple of common genre tags.
const (
	KindTrending = "trending"
	KindTop      = "top"

	GenreHipHop     = "soundcloud:genres:hiphop"
	GenreElectronic = "soundcloud:genres:electronic"
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

// WithRetryDelay overrides the wait before the single rate-limit retry.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithTimeout sets the deadline applied to each request attempt.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client fetches chart data from the SoundCloud v2 API.
type Client struct {
	clientID   string
	baseURL    string
	retryDelay time.Duration
	timeout    time.Duration
	httpClient HTTPClient
}

// NewClient creates a SoundCloud charts client with the given client id.
func NewClient(clientID string, opts ...ClientOption) *Client {
	c := &Client{
		clientID:   clientID,
		baseURL:    defaultBaseURL,
		retryDelay: rateLimitDelay,
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TrendingArtists returns the artists behind the charted tracks for a genre,
// deduplicated by artist id in chart order. limit caps the number of chart
// entries requested, not the number of artists returned.
func (c *Client) TrendingArtists(ctx context.Context, genre, kind string, limit int) ([]Artist, error) {
	params := url.Values{}
	params.Set("genre", genre)
	params.Set("kind", kind)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("client_id", c.clientID)

	body, err := c.doRequest(ctx, c.baseURL+"/charts?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var response chartsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse charts response: %w", err)
	}

	seen := make(map[int64]bool)
	artists := make([]Artist, 0, len(response.Collection))
	for _, item := range response.Collection {
		user := item.Track.User
		if user.ID == 0 || seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		artists = append(artists, Artist{
			ID:        user.ID,
			Username:  user.Username,
			Permalink: user.PermalinkURL,
		})
	}

	return artists, nil
}

// doRequest issues one GET, retrying once after a fixed delay if the API
// answers 429.
func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	body, status, err := c.doOnce(ctx, url)
	if err != nil {
		return nil, err
	}
	if status == http.StatusTooManyRequests {
		timer := time.NewTimer(c.retryDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
		body, status, err = c.doOnce(ctx, url)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("SoundCloud API error (status %d)", status)
	}
	return body, nil
}

// doOnce performs a single request attempt under its own deadline.
func (c *Client) doOnce(ctx context.Context, url string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// chartsResponse is a private parsing struct for the charts payload.
type chartsResponse struct {
	Collection []struct {
		Track struct {
			User struct {
				ID           int64  `json:"id"`
				Username     string `json:"username"`
				PermalinkURL string `json:"permalink_url"`
			} `json:"user"`
		} `json:"track"`
	} `json:"collection"`
}
