package provider

import (
	"errors"
	"testing"
)

func TestRawID(t *testing.T) {
	cases := map[string]string{
		"youtube_dQw4w9WgXcQ": "dQw4w9WgXcQ",
		"jiosaavn_abc123":     "abc123",
		"itunes_42":           "42",
		"plainid":             "plainid",
		"youtube_":            "",
	}
	for in, want := range cases {
		if got := RawID(in); got != want {
			t.Errorf("RawID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSource(t *testing.T) {
	for _, s := range []Source{SourceYouTube, SourceJioSaavn, SourceITunes} {
		parsed, err := ParseSource(s.String())
		if err != nil {
			t.Fatalf("ParseSource(%s): %v", s, err)
		}
		if parsed != s {
			t.Fatalf("ParseSource(%s) = %v", s, parsed)
		}
	}
	if _, err := ParseSource("spotify"); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestTrackStreamURLPrefersFull(t *testing.T) {
	track := Track{URLs: CandidateURLs{Preview: "p", Full: "f"}}
	if track.StreamURL() != "f" {
		t.Fatal("full URL must beat preview")
	}

	track.URLs.Full = ""
	if track.StreamURL() != "p" {
		t.Fatal("preview URL must be used when full is absent")
	}
	if !track.Playable() {
		t.Fatal("track with preview URL is playable")
	}

	track.URLs.Preview = ""
	if track.Playable() {
		t.Fatal("track without URLs is not playable")
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	err := NewAccessRestrictedError("youtube", "abc", "age gate")
	if !errors.Is(err, ErrAccessRestricted) {
		t.Fatal("sentinel must stay reachable through the wrapper")
	}
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatal("expected *ProviderError")
	}
	if perr.Provider != "youtube" || perr.ID != "abc" {
		t.Fatalf("unexpected wrapper fields: %+v", perr)
	}
}
