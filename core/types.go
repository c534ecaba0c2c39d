package core

import "time"

// SavedTrack is the denormalized track record persisted in the local library.
// TrackID carries the provider prefix (e.g. "youtube_", "jiosaavn_") and is
// therefore unique across providers.
type SavedTrack struct {
	TrackID                string
	Title                  string
	Artist                 string
	Album                  string
	DurationSeconds        int
	PreviewDurationSeconds int
	ArtworkURL             string
	Source                 string
	PreviewURL             string
	FullURL                string
}

// PlaylistInfo represents a user playlist with its tracks in insertion order.
type PlaylistInfo struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	Tracks    []SavedTrack
}
