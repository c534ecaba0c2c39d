package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"github.com/vibestream/vibestream/core"
)

const (
	defaultAPIBase = "https://www.youtube.com/youtubei/v1"

	clientName    = "WEB"
	clientVersion = "2.20240620.05.00"
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// SessionContext is the shared provider session handle sent with every
// API call. It is built once at process start and treated as immutable
// afterwards, so concurrent requests can read it without locking.
type SessionContext struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl"`
	GL            string `json:"gl"`
}

// Client provides resilient YouTube internal API calls.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	breaker    *gobreaker.CircuitBreaker
	session    SessionContext
	logger     core.Logger
}

// NewClient creates a YouTube client with retry and circuit breaker.
// An empty baseURL selects the public endpoint.
func NewClient(baseURL string, logger core.Logger) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil

	settings := gobreaker.Settings{
		Name:        "youtube-api",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	if baseURL == "" {
		baseURL = defaultAPIBase
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		session: SessionContext{
			ClientName:    clientName,
			ClientVersion: clientVersion,
			HL:            "en",
			GL:            "US",
		},
		logger: logger,
	}
}

type requestContext struct {
	Client SessionContext `json:"client"`
}

type searchRequest struct {
	Context requestContext `json:"context"`
	Query   string         `json:"query"`
	// Params pins the search to video results.
	Params string `json:"params"`
}

type playerRequest struct {
	Context requestContext `json:"context"`
	VideoID string         `json:"videoId"`
}

type textRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
	SimpleText string `json:"simpleText"`
}

func (t textRuns) String() string {
	if len(t.Runs) > 0 {
		return t.Runs[0].Text
	}
	return t.SimpleText
}

type thumbnailSet struct {
	Thumbnails []struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"thumbnails"`
}

// videoResult is the subset of the search renderer this provider reads.
type videoResult struct {
	VideoID    string       `json:"videoId"`
	Title      textRuns     `json:"title"`
	OwnerText  textRuns     `json:"ownerText"`
	LengthText textRuns     `json:"lengthText"`
	Thumbnail  thumbnailSet `json:"thumbnail"`
}

type searchResponse struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer struct {
							Contents []struct {
								VideoRenderer *videoResult `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

type streamFormat struct {
	Itag           int    `json:"itag"`
	URL            string `json:"url"`
	MimeType       string `json:"mimeType"`
	Bitrate        int    `json:"bitrate"`
	AverageBitrate int    `json:"averageBitrate"`
	AudioQuality   string `json:"audioQuality"`
	QualityLabel   string `json:"qualityLabel"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	StreamingData struct {
		Formats         []streamFormat `json:"formats"`
		AdaptiveFormats []streamFormat `json:"adaptiveFormats"`
	} `json:"streamingData"`
}

// Search runs a video search and returns the flattened video results.
func (c *Client) Search(ctx context.Context, query string) ([]videoResult, error) {
	if c.logger != nil {
		c.logger.Debug("youtube: searching", "query", query)
	}

	payload := searchRequest{
		Context: requestContext{Client: c.session},
		Query:   query,
		Params:  "EgIQAQ==", // type: video
	}

	var result searchResponse
	if err := c.post(ctx, "/search", payload, &result); err != nil {
		return nil, err
	}

	var videos []videoResult
	sections := result.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents
	for _, section := range sections {
		for _, item := range section.ItemSectionRenderer.Contents {
			if item.VideoRenderer != nil && item.VideoRenderer.VideoID != "" {
				videos = append(videos, *item.VideoRenderer)
			}
		}
	}
	return videos, nil
}

// Player fetches the playability status and stream formats for a video.
func (c *Client) Player(ctx context.Context, videoID string) (*playerResponse, error) {
	if c.logger != nil {
		c.logger.Debug("youtube: fetching player data", "video_id", videoID)
	}

	payload := playerRequest{
		Context: requestContext{Client: c.session},
		VideoID: videoID,
	}

	var result playerResponse
	if err := c.post(ctx, "/player", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("youtube: encode request: %w", err)
	}

	return c.execute(ctx, func() error {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("youtube: unexpected status code %d: %s", resp.StatusCode, truncate(data, 200))
		}

		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("youtube: decode %s response: %w", endpoint, err)
		}
		return nil
	})
}

func (c *Client) execute(ctx context.Context, fn func() error) error {
	if fn == nil {
		return nil
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fn()
	})
	return err
}

func truncate(data []byte, limit int) string {
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}
