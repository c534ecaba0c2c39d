package provider

import (
	"fmt"
	"strings"
)

// Source identifies an upstream content provider.
type Source int

const (
	// SourceYouTube is the primary video provider; playback requires
	// server-side extraction of an audio rendition.
	SourceYouTube Source = iota

	// SourceJioSaavn is the secondary catalog provider with direct
	// full-track URLs.
	SourceJioSaavn

	// SourceITunes is the preview catalog provider; it only serves
	// 30-second preview clips.
	SourceITunes
)

// String returns the lowercase provider identifier.
func (s Source) String() string {
	switch s {
	case SourceYouTube:
		return "youtube"
	case SourceJioSaavn:
		return "jiosaavn"
	case SourceITunes:
		return "itunes"
	default:
		return "unknown"
	}
}

// IDPrefix returns the prefix applied to track IDs from this source,
// making IDs globally unique across providers.
func (s Source) IDPrefix() string {
	return s.String() + "_"
}

// ParseSource converts a string to a Source.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "youtube":
		return SourceYouTube, nil
	case "jiosaavn":
		return SourceJioSaavn, nil
	case "itunes":
		return SourceITunes, nil
	default:
		return SourceYouTube, fmt.Errorf("unknown source: %s", s)
	}
}

// RawID strips the provider prefix from a prefixed track ID.
// IDs without a recognized prefix are returned unchanged.
func RawID(id string) string {
	for _, s := range []Source{SourceYouTube, SourceJioSaavn, SourceITunes} {
		if rest, ok := strings.CutPrefix(id, s.IDPrefix()); ok {
			return rest
		}
	}
	return id
}

// CandidateURLs holds the directly playable URLs a provider attached to a
// track at search time. Either may be empty; extraction providers leave
// both empty until resolution.
type CandidateURLs struct {
	Preview string `json:"preview,omitempty"`
	Full    string `json:"full,omitempty"`
}

// Track is the unified representation of a track from any provider.
type Track struct {
	// ID is the provider-prefixed track identifier (e.g. "youtube_abc123").
	ID string `json:"id"`

	// Source is the provider this track came from.
	Source Source `json:"source"`

	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`

	// DurationSeconds is the full track length in seconds.
	DurationSeconds int `json:"duration_seconds"`

	// DurationText is the provider's human-readable duration (e.g. "3:45").
	DurationText string `json:"duration_text,omitempty"`

	// PreviewDurationSeconds is the preview clip length. Providers that do
	// not report one default it to 30.
	PreviewDurationSeconds int `json:"preview_duration_seconds"`

	// ArtworkURL is the cover image URL.
	ArtworkURL string `json:"artwork_url,omitempty"`

	// PageURL is the provider's public page for the track.
	PageURL string `json:"page_url,omitempty"`

	// URLs holds the candidate playback URLs known at search time.
	URLs CandidateURLs `json:"urls"`
}

// Playable reports whether the track has at least one candidate URL.
func (t Track) Playable() bool {
	return t.URLs.Full != "" || t.URLs.Preview != ""
}

// StreamURL returns the best candidate URL, preferring the full track
// over the preview clip. Empty when neither is set.
func (t Track) StreamURL() string {
	if t.URLs.Full != "" {
		return t.URLs.Full
	}
	return t.URLs.Preview
}

// DefaultPreviewSeconds is applied when a provider serves a short clip
// without reporting its true duration.
const DefaultPreviewSeconds = 30
