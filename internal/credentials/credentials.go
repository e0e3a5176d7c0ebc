// Package credentials loads provider credentials from the environment, with
// .env files honored for local runs.
package credentials

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// ErrNotConfigured means the YouTube API key is missing. This is the one
// fatal configuration error: the CLI checks it before any provider call.
var ErrNotConfigured = errors.New("missing YOUTUBE_API_KEY: set it in the environment or a .env file")

// defaultSoundCloudClientID is SoundCloud's public sandbox client id, kept as
// a fallback so chart discovery works without any setup.
const defaultSoundCloudClientID = "2t9loNQH90kzJcsFCODdigxfp325aq4z"

// Credentials holds everything the provider clients need to authenticate.
type Credentials struct {
	YouTubeAPIKey      string
	SoundCloudClientID string
}

// Load reads credentials from the environment. A .env file in the working
// directory is merged in first when present; a missing file is not an error.
func Load() (*Credentials, error) {
	_ = godotenv.Load()

	key := os.Getenv("YOUTUBE_API_KEY")
	if key == "" {
		return nil, ErrNotConfigured
	}

	return &Credentials{
		YouTubeAPIKey:      key,
		SoundCloudClientID: SoundCloudClientID(),
	}, nil
}

// SoundCloudClientID returns the charts client id. Chart discovery needs no
// YouTube key: the environment value wins, otherwise the public fallback
// applies.
func SoundCloudClientID() string {
	_ = godotenv.Load()

	if id := os.Getenv("SOUNDCLOUD_CLIENT_ID"); id != "" {
		return id
	}
	return defaultSoundCloudClientID
}
