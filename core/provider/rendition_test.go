package provider

import "testing"

func TestBestRenditionPrefersAudioOnly(t *testing.T) {
	renditions := []Rendition{
		{HasAudio: true, HasVideo: true, AudioBitrate: 256, Bitrate: 5000, URL: "mixed-hq"},
		{HasAudio: true, HasVideo: false, AudioBitrate: 128, URL: "audio-128"},
		{HasAudio: true, HasVideo: false, AudioBitrate: 160, URL: "audio-160"},
	}

	best, ok := BestRendition(renditions)
	if !ok {
		t.Fatal("expected a rendition")
	}
	if best.URL != "audio-160" {
		t.Fatalf("expected audio-160, got %s", best.URL)
	}
}

func TestBestRenditionTieKeepsFirst(t *testing.T) {
	renditions := []Rendition{
		{HasAudio: true, AudioBitrate: 128, URL: "first"},
		{HasAudio: true, AudioBitrate: 128, URL: "second"},
	}

	best, ok := BestRendition(renditions)
	if !ok {
		t.Fatal("expected a rendition")
	}
	if best.URL != "first" {
		t.Fatalf("expected first rendition to win the tie, got %s", best.URL)
	}
}

func TestBestRenditionMixedFallback(t *testing.T) {
	renditions := []Rendition{
		{HasAudio: false, HasVideo: true, Bitrate: 8000, URL: "video-only"},
		{HasAudio: true, HasVideo: true, AudioBitrate: 128, Bitrate: 3000, URL: "mixed-low"},
		{HasAudio: true, HasVideo: true, AudioBitrate: 128, Bitrate: 5000, URL: "mixed-high"},
	}

	best, ok := BestRendition(renditions)
	if !ok {
		t.Fatal("expected a rendition")
	}
	if best.URL != "mixed-high" {
		t.Fatalf("expected overall bitrate to break the tie, got %s", best.URL)
	}
}

func TestBestRenditionNoAudio(t *testing.T) {
	renditions := []Rendition{
		{HasAudio: false, HasVideo: true, Bitrate: 8000, URL: "video-only"},
	}

	if _, ok := BestRendition(renditions); ok {
		t.Fatal("expected no rendition for video-only input")
	}
	if _, ok := BestRendition(nil); ok {
		t.Fatal("expected no rendition for empty input")
	}
}

func TestBestRenditionIgnoresOrder(t *testing.T) {
	a := []Rendition{
		{HasAudio: true, AudioBitrate: 96, URL: "low"},
		{HasAudio: true, AudioBitrate: 320, URL: "high"},
	}
	b := []Rendition{a[1], a[0]}

	bestA, _ := BestRendition(a)
	bestB, _ := BestRendition(b)
	if bestA.URL != "high" || bestB.URL != "high" {
		t.Fatalf("selection must not depend on input order: %s vs %s", bestA.URL, bestB.URL)
	}
}
