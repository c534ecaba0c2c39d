package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const searchFixture = `{
  "contents": {
    "twoColumnSearchResultsRenderer": {
      "primaryContents": {
        "sectionListRenderer": {
          "contents": [
            {
              "itemSectionRenderer": {
                "contents": [
                  {"videoRenderer": {
                    "videoId": "abc123",
                    "title": {"runs": [{"text": "Song"}]},
                    "ownerText": {"runs": [{"text": "Channel"}]},
                    "lengthText": {"simpleText": "3:45"},
                    "thumbnail": {"thumbnails": [{"url": "https://img.example/t.jpg", "width": 120, "height": 90}]}
                  }},
                  {"shelfRenderer": {}}
                ]
              }
            }
          ]
        }
      }
    }
  }
}`

func TestClientSearchParsesResults(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var payload searchRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Query != "song" {
			t.Errorf("unexpected query: %s", payload.Query)
		}
		if payload.Context.Client.ClientName == "" {
			t.Error("session context missing from request")
		}
		_, _ = w.Write([]byte(searchFixture))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, nil)
	videos, err := c.Search(context.Background(), "song")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(videos))
	}
	v := videos[0]
	if v.VideoID != "abc123" || v.Title.String() != "Song" || v.OwnerText.String() != "Channel" {
		t.Fatalf("unexpected video: %+v", v)
	}
	if v.LengthText.String() != "3:45" {
		t.Fatalf("unexpected length: %s", v.LengthText.String())
	}
}

func TestClientPlayer(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/player" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
          "playabilityStatus": {"status": "OK"},
          "streamingData": {
            "adaptiveFormats": [
              {"itag": 140, "url": "https://yt.example/a", "mimeType": "audio/mp4", "averageBitrate": 129000, "audioQuality": "AUDIO_QUALITY_MEDIUM"}
            ]
          }
        }`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, nil)
	resp, err := c.Player(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if resp.PlayabilityStatus.Status != "OK" {
		t.Fatalf("unexpected status: %s", resp.PlayabilityStatus.Status)
	}
	if len(resp.StreamingData.AdaptiveFormats) != 1 {
		t.Fatalf("expected 1 format, got %d", len(resp.StreamingData.AdaptiveFormats))
	}
}

func TestClientNonOKStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, nil)
	c.httpClient.RetryMax = 0
	if _, err := c.Search(context.Background(), "song"); err == nil {
		t.Fatal("expected error on upstream 503")
	}
}
