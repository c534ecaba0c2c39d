package provider

// Rendition is one concrete encoded variant of a media item, produced by
// extraction. Renditions are ephemeral; they live for a single resolution
// call and are never persisted.
type Rendition struct {
	HasAudio bool `json:"has_audio"`
	HasVideo bool `json:"has_video"`

	// AudioBitrate is the audio bitrate in kbps.
	AudioBitrate int `json:"audio_bitrate"`

	// Bitrate is the overall stream bitrate in kbps (audio + video for
	// mixed renditions).
	Bitrate int `json:"bitrate"`

	QualityLabel string `json:"quality_label,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
	URL          string `json:"url"`
}

// BestRendition picks the best-quality playable rendition:
//
//  1. Audio-only renditions win, highest AudioBitrate first; ties keep the
//     first-encountered rendition.
//  2. Otherwise mixed audio+video renditions, ordered by AudioBitrate
//     descending, then overall Bitrate descending.
//  3. No audio at all (or empty input) returns ok=false.
//
// Pure-audio streams minimize bandwidth and decoding cost, so they always
// beat a mixed stream regardless of bitrate.
func BestRendition(renditions []Rendition) (Rendition, bool) {
	var best Rendition
	found := false
	for _, r := range renditions {
		if !r.HasAudio || r.HasVideo {
			continue
		}
		if !found || r.AudioBitrate > best.AudioBitrate {
			best = r
			found = true
		}
	}
	if found {
		return best, true
	}

	for _, r := range renditions {
		if !r.HasAudio || !r.HasVideo {
			continue
		}
		if !found ||
			r.AudioBitrate > best.AudioBitrate ||
			(r.AudioBitrate == best.AudioBitrate && r.Bitrate > best.Bitrate) {
			best = r
			found = true
		}
	}
	return best, found
}
