// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables scoutradar to:
// - Search for channels matching an artist name
// - Search for videos and attribute them to their owning channel
// - Page through a channel's uploads via continuation tokens
// - Fetch statistics for batches of video IDs
package youtube

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ChannelStub is a channel hit from a name search. Only the fields needed for
// candidate matching are carried; the full profile is fetched after selection.
type ChannelStub struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// VideoStub is a video hit from a name search, attributed to its owning channel.
type VideoStub struct {
	VideoID      string `json:"video_id"`
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
}

// VideoPage is one page of a channel's uploads. An empty NextPageToken means
// the listing is exhausted.
type VideoPage struct {
	IDs           []string `json:"ids"`
	NextPageToken string   `json:"next_page_token,omitempty"`
}

// ChannelProfile is the full record for a resolved channel.
type ChannelProfile struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	PublishedAt     time.Time `json:"published_at"`
	SubscriberCount int64     `json:"subscriber_count"`
	VideoCount      int64     `json:"video_count"`
}

// RawStats holds the statistics fields of one video exactly as they arrived
// on the wire, keyed by metric name (viewCount, likeCount, commentCount).
type RawStats map[string]RawValue

// RawValue defers interpretation of a metric field whose wire shape is not
// trustworthy: the API documents counters as JSON strings, but bare numbers
// have been observed. The value is resolved to an integer exactly once, via
// Int64, with an explicit failure branch instead of a silent zero.
type RawValue struct {
	raw json.RawMessage
}

// UnmarshalJSON captures the raw bytes without interpreting them.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

// MarshalJSON round-trips the captured bytes.
func (v RawValue) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// Int64 resolves the raw value to a non-negative integer count. Accepts a
// JSON number or a quoted string of digits; everything else (null, floats,
// free text like "N/A") is an error the caller must handle.
func (v RawValue) Int64() (int64, error) {
	s := string(bytes.TrimSpace(v.raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("metric value %s is not an integer", string(v.raw))
	}
	if n < 0 {
		return 0, fmt.Errorf("metric value %s is negative", string(v.raw))
	}
	return n, nil
}
