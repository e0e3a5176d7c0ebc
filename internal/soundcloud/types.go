// Package soundcloud provides a client for SoundCloud's public charts API,
// used to discover trending artists worth resolving.
package soundcloud

// Artist is a chart-surfaced artist.
type Artist struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Permalink string `json:"permalink"`
}
