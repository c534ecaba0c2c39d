package youtube

import (
	"context"
	"strconv"
	"strings"

	"github.com/vibestream/vibestream/core"
	"github.com/vibestream/vibestream/core/provider"
)

// Provider implements YouTube search and audio extraction.
type Provider struct {
	client        *Client
	publicBaseURL string
	logger        core.Logger
}

// New creates a YouTube provider. publicBaseURL, when set, is used to
// attach self-referencing audio URLs to search results so tracks are
// playable without a second round trip.
func New(client *Client, publicBaseURL string, logger core.Logger) *Provider {
	return &Provider{
		client:        client,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

func (p *Provider) Name() string {
	return provider.SourceYouTube.String()
}

func (p *Provider) Source() provider.Source {
	return provider.SourceYouTube
}

// Search returns YouTube videos as unified tracks. The channel stands in
// for the artist since videos carry no album metadata.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]provider.Track, error) {
	videos, err := p.client.Search(ctx, query)
	if err != nil {
		return nil, provider.NewTransportError(p.Name(), query, err)
	}

	tracks := make([]provider.Track, 0, len(videos))
	for _, v := range videos {
		if limit > 0 && len(tracks) >= limit {
			break
		}
		tracks = append(tracks, p.toTrack(v))
	}
	return tracks, nil
}

func (p *Provider) toTrack(v videoResult) provider.Track {
	track := provider.Track{
		ID:                     provider.SourceYouTube.IDPrefix() + v.VideoID,
		Source:                 provider.SourceYouTube,
		Title:                  v.Title.String(),
		Artist:                 v.OwnerText.String(),
		Album:                  "YouTube",
		DurationSeconds:        parseDurationText(v.LengthText.String()),
		DurationText:           v.LengthText.String(),
		PreviewDurationSeconds: provider.DefaultPreviewSeconds,
		PageURL:                "https://www.youtube.com/watch?v=" + v.VideoID,
	}
	best := -1
	for i, thumb := range v.Thumbnail.Thumbnails {
		if best < 0 || thumb.Width > v.Thumbnail.Thumbnails[best].Width {
			best = i
		}
	}
	if best >= 0 {
		track.ArtworkURL = v.Thumbnail.Thumbnails[best].URL
	}
	// Audio needs server-side extraction, so the playable URL points back
	// at this service rather than at YouTube.
	if p.publicBaseURL != "" {
		audioURL := p.publicBaseURL + "/api/audio/" + v.VideoID
		track.URLs = provider.CandidateURLs{Preview: audioURL, Full: audioURL}
	}
	return track
}

// Extract fetches the stream formats for a video and converts them to
// renditions. Playability failures map onto the provider sentinels.
func (p *Provider) Extract(ctx context.Context, id string) ([]provider.Rendition, error) {
	resp, err := p.client.Player(ctx, id)
	if err != nil {
		return nil, provider.NewTransportError(p.Name(), id, err)
	}

	if err := p.checkPlayability(id, resp); err != nil {
		return nil, err
	}

	formats := make([]streamFormat, 0, len(resp.StreamingData.Formats)+len(resp.StreamingData.AdaptiveFormats))
	formats = append(formats, resp.StreamingData.Formats...)
	formats = append(formats, resp.StreamingData.AdaptiveFormats...)

	renditions := make([]provider.Rendition, 0, len(formats))
	for _, f := range formats {
		if f.URL == "" {
			continue
		}
		renditions = append(renditions, toRendition(f))
	}
	return renditions, nil
}

func (p *Provider) checkPlayability(id string, resp *playerResponse) error {
	status := resp.PlayabilityStatus.Status
	reason := resp.PlayabilityStatus.Reason

	switch status {
	case "", "OK":
		return nil
	case "LOGIN_REQUIRED", "AGE_CHECK_REQUIRED", "AGE_VERIFICATION_REQUIRED", "CONTENT_CHECK_REQUIRED":
		return provider.NewAccessRestrictedError(p.Name(), id, reason)
	case "ERROR":
		if strings.Contains(strings.ToLower(reason), "unavailable") {
			return provider.NewUnavailableError(p.Name(), "track", id)
		}
		return provider.NewNotFoundError(p.Name(), "track", id)
	case "UNPLAYABLE":
		// Region blocks phrase the reason a few ways ("The uploader has
		// not made this video available in your country", "This video is
		// not available in your country"); match the stable tail.
		if strings.Contains(strings.ToLower(reason), "available in your country") {
			return provider.NewAccessRestrictedError(p.Name(), id, reason)
		}
		return provider.NewUnavailableError(p.Name(), "track", id)
	default:
		return provider.NewUnavailableError(p.Name(), "track", id)
	}
}

func toRendition(f streamFormat) provider.Rendition {
	hasAudio := f.AudioQuality != "" || strings.HasPrefix(f.MimeType, "audio/")
	hasVideo := strings.HasPrefix(f.MimeType, "video/")

	bitrate := f.AverageBitrate
	if bitrate == 0 {
		bitrate = f.Bitrate
	}
	kbps := bitrate / 1000

	r := provider.Rendition{
		HasAudio:     hasAudio,
		HasVideo:     hasVideo,
		Bitrate:      kbps,
		QualityLabel: f.QualityLabel,
		MimeType:     f.MimeType,
		URL:          f.URL,
	}
	if hasAudio {
		if hasVideo {
			r.AudioBitrate = audioQualityKbps(f.AudioQuality)
		} else {
			r.AudioBitrate = kbps
		}
	}
	if r.QualityLabel == "" {
		r.QualityLabel = f.AudioQuality
	}
	return r
}

// audioQualityKbps maps the coarse audio quality tiers to nominal kbps
// values for mixed streams, which report no separate audio bitrate.
func audioQualityKbps(quality string) int {
	switch quality {
	case "AUDIO_QUALITY_HIGH":
		return 256
	case "AUDIO_QUALITY_MEDIUM":
		return 128
	case "AUDIO_QUALITY_LOW":
		return 64
	default:
		return 0
	}
}

// TestConnectivity probes the search endpoint with a throwaway query.
func (p *Provider) TestConnectivity(ctx context.Context) bool {
	_, err := p.client.Search(ctx, "test")
	if err != nil && p.logger != nil {
		p.logger.Warn("youtube: connectivity probe failed", "error", err)
	}
	return err == nil
}

// parseDurationText converts "3:45" or "1:02:45" style durations to
// seconds. Malformed input yields zero.
func parseDurationText(text string) int {
	if text == "" {
		return 0
	}
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
