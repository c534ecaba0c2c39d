package itunes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vibestream/vibestream/core"
	"github.com/vibestream/vibestream/core/provider"
)

const placeholderArtwork = "https://via.placeholder.com/300"

// Provider implements iTunes preview search. iTunes only serves
// 30-second preview clips, so tracks never carry a full URL.
type Provider struct {
	client *Client
	logger core.Logger
}

// New creates an iTunes provider.
func New(client *Client, logger core.Logger) *Provider {
	return &Provider{client: client, logger: logger}
}

func (p *Provider) Name() string {
	return provider.SourceITunes.String()
}

func (p *Provider) Source() provider.Source {
	return provider.SourceITunes
}

// Search returns preview tracks. Results without a preview URL are
// dropped since nothing about them is playable.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]provider.Track, error) {
	if limit <= 0 {
		limit = 10
	}
	songs, err := p.client.SearchSongs(ctx, query, limit)
	if err != nil {
		return nil, provider.NewTransportError(p.Name(), query, err)
	}

	tracks := make([]provider.Track, 0, len(songs))
	for _, s := range songs {
		if s.PreviewURL == "" {
			continue
		}
		tracks = append(tracks, toTrack(s))
	}
	return tracks, nil
}

func toTrack(s songResult) provider.Track {
	// A missing track time means only the preview clip length is known.
	seconds := s.TrackTimeMillis / 1000
	if seconds <= 0 {
		seconds = provider.DefaultPreviewSeconds
	}
	return provider.Track{
		ID:                     provider.SourceITunes.IDPrefix() + strconv.FormatInt(s.TrackID, 10),
		Source:                 provider.SourceITunes,
		Title:                  s.TrackName,
		Artist:                 s.ArtistName,
		Album:                  s.CollectionName,
		DurationSeconds:        seconds,
		DurationText:           formatDuration(seconds),
		PreviewDurationSeconds: provider.DefaultPreviewSeconds,
		ArtworkURL:             upscaleArtwork(s.ArtworkURL100),
		PageURL:                s.TrackViewURL,
		URLs: provider.CandidateURLs{
			Preview: s.PreviewURL,
		},
	}
}

// upscaleArtwork swaps the 100x100 artwork variant for the 300x300 one;
// the CDN serves any size by path substitution.
func upscaleArtwork(u string) string {
	if u == "" {
		return placeholderArtwork
	}
	return strings.Replace(u, "100x100", "300x300", 1)
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// TestConnectivity probes the search endpoint with a throwaway query.
func (p *Provider) TestConnectivity(ctx context.Context) bool {
	_, err := p.client.SearchSongs(ctx, "test", 1)
	if err != nil && p.logger != nil {
		p.logger.Warn("itunes: connectivity probe failed", "error", err)
	}
	return err == nil
}
