package jiosaavn

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibestream/vibestream/core"
	"github.com/vibestream/vibestream/core/provider"
)

const (
	targetImageQuality    = "500x500"
	targetDownloadQuality = "320kbps"
)

// Provider implements JioSaavn catalog search. Tracks carry direct
// full-length stream URLs, so no extraction step is needed.
type Provider struct {
	client *Client
	logger core.Logger
}

// New creates a JioSaavn provider.
func New(client *Client, logger core.Logger) *Provider {
	return &Provider{client: client, logger: logger}
}

func (p *Provider) Name() string {
	return provider.SourceJioSaavn.String()
}

func (p *Provider) Source() provider.Source {
	return provider.SourceJioSaavn
}

// Search returns catalog songs as unified tracks.
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
		tracks = append(tracks, toTrack(s))
	}
	return tracks, nil
}

func toTrack(s songResult) provider.Track {
	streamURL := upgradeToHTTPS(pickDownloadURL(s.DownloadURL))
	return provider.Track{
		ID:                     provider.SourceJioSaavn.IDPrefix() + s.ID,
		Source:                 provider.SourceJioSaavn,
		Title:                  s.Name,
		Artist:                 primaryArtist(s.Artists.Primary),
		Album:                  albumName(s.Album.Name),
		DurationSeconds:        s.Duration,
		DurationText:           formatDuration(s.Duration),
		PreviewDurationSeconds: provider.DefaultPreviewSeconds,
		ArtworkURL:             upgradeToHTTPS(pickImage(s.Image)),
		PageURL:                s.URL,
		URLs: provider.CandidateURLs{
			Preview: streamURL,
			Full:    streamURL,
		},
	}
}

// pickImage prefers the 500x500 variant, falling back to the first entry.
func pickImage(images []qualityURL) string {
	for _, img := range images {
		if img.Quality == targetImageQuality {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}

// pickDownloadURL prefers the 320kbps variant, falling back to the last
// entry, which the catalog orders lowest to highest quality.
func pickDownloadURL(urls []qualityURL) string {
	for _, u := range urls {
		if u.Quality == targetDownloadQuality {
			return u.URL
		}
	}
	if len(urls) > 0 {
		return urls[len(urls)-1].URL
	}
	return ""
}

// upgradeToHTTPS rewrites plain http URLs; the catalog still serves some
// media hosts over http.
func upgradeToHTTPS(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

func primaryArtist(artists []artistRef) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	if len(names) == 0 {
		return "Unknown Artist"
	}
	return strings.Join(names, ", ")
}

func albumName(name string) string {
	if name == "" {
		return "Unknown Album"
	}
	return name
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
		p.logger.Warn("jiosaavn: connectivity probe failed", "error", err)
	}
	return err == nil
}
