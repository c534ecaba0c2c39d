package itunes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibestream/vibestream/core/provider"
)

func TestToTrack(t *testing.T) {
	s := songResult{
		TrackID:         123456,
		TrackName:       "Shape of You",
		ArtistName:      "Ed Sheeran",
		CollectionName:  "Divide",
		TrackTimeMillis: 233712,
		ArtworkURL100:   "https://is1.mzstatic.com/image/100x100bb.jpg",
		PreviewURL:      "https://audio.example/preview.m4a",
		TrackViewURL:    "https://music.apple.com/track/123456",
	}

	track := toTrack(s)

	assert.Equal(t, "itunes_123456", track.ID)
	assert.Equal(t, provider.SourceITunes, track.Source)
	assert.Equal(t, "Ed Sheeran", track.Artist)
	assert.Equal(t, "Divide", track.Album)
	assert.Equal(t, 233, track.DurationSeconds)
	assert.Equal(t, "3:53", track.DurationText)
	assert.Equal(t, provider.DefaultPreviewSeconds, track.PreviewDurationSeconds)
	assert.Equal(t, "https://is1.mzstatic.com/image/300x300bb.jpg", track.ArtworkURL)

	// iTunes never has a full stream, only the preview clip.
	assert.Equal(t, "https://audio.example/preview.m4a", track.URLs.Preview)
	assert.Empty(t, track.URLs.Full)
	require.True(t, track.Playable())
}

func TestUpscaleArtworkPlaceholder(t *testing.T) {
	assert.Equal(t, placeholderArtwork, upscaleArtwork(""))
}

func TestToTrackMissingDurationDefaultsToPreview(t *testing.T) {
	track := toTrack(songResult{
		TrackID:    7,
		TrackName:  "No Length",
		PreviewURL: "https://audio.example/p.m4a",
	})

	assert.Equal(t, provider.DefaultPreviewSeconds, track.DurationSeconds)
	assert.Equal(t, "0:30", track.DurationText)
}

func TestSearchFiltersPreviewlessTracks(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(searchResponse{
			ResultCount: 2,
			Results: []songResult{
				{TrackID: 1, TrackName: "no preview"},
				{TrackID: 2, TrackName: "with preview", PreviewURL: "https://audio.example/p.m4a"},
			},
		})
	}))
	defer upstream.Close()

	p := New(NewClient(upstream.URL, nil), nil)
	tracks, err := p.Search(context.Background(), "query", 10)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "itunes_2", tracks[0].ID)
}
