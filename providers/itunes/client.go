package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"github.com/vibestream/vibestream/core"
)

const defaultAPIBase = "https://itunes.apple.com"

// Client wraps the iTunes Search API with retry and circuit breaker.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	breaker    *gobreaker.CircuitBreaker
	logger     core.Logger
}

// NewClient creates an iTunes client.
func NewClient(baseURL string, logger core.Logger) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil

	settings := gobreaker.Settings{
		Name:        "itunes-api",
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
		logger:     logger,
	}
}

// songResult is the subset of an iTunes result this provider reads.
type songResult struct {
	TrackID           int64  `json:"trackId"`
	TrackName         string `json:"trackName"`
	ArtistName        string `json:"artistName"`
	CollectionName    string `json:"collectionName"`
	TrackTimeMillis   int    `json:"trackTimeMillis"`
	ArtworkURL100     string `json:"artworkUrl100"`
	PreviewURL        string `json:"previewUrl"`
	TrackViewURL      string `json:"trackViewUrl"`
	CollectionViewURL string `json:"collectionViewUrl"`
}

type searchResponse struct {
	ResultCount int          `json:"resultCount"`
	Results     []songResult `json:"results"`
}

// SearchSongs queries the music catalog for preview tracks.
func (c *Client) SearchSongs(ctx context.Context, term string, limit int) ([]songResult, error) {
	if c.logger != nil {
		c.logger.Debug("itunes: searching", "term", term, "limit", limit)
	}

	endpoint := fmt.Sprintf("%s/search?term=%s&media=music&limit=%s",
		c.baseURL, url.QueryEscape(term), strconv.Itoa(limit))

	var result searchResponse
	_, err := c.breaker.Execute(func() (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("itunes: unexpected status code %d", resp.StatusCode)
		}

		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("itunes: decode response: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}
