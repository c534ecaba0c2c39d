package jiosaavn

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

const defaultAPIBase = "https://saavn.dev"

// Client wraps the JioSaavn catalog API with retry and circuit breaker.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	breaker    *gobreaker.CircuitBreaker
	logger     core.Logger
}

// NewClient creates a JioSaavn client. An empty baseURL selects the
// public mirror.
func NewClient(baseURL string, logger core.Logger) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil

	settings := gobreaker.Settings{
		Name:        "jiosaavn-api",
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

type qualityURL struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type artistRef struct {
	Name string `json:"name"`
}

// songResult is the subset of a catalog song entry this provider reads.
type songResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	URL      string `json:"url"`
	Album    struct {
		Name string `json:"name"`
	} `json:"album"`
	Artists struct {
		Primary []artistRef `json:"primary"`
	} `json:"artists"`
	Image       []qualityURL `json:"image"`
	DownloadURL []qualityURL `json:"downloadUrl"`
}

type searchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Results []songResult `json:"results"`
	} `json:"data"`
}

// SearchSongs queries the song catalog.
func (c *Client) SearchSongs(ctx context.Context, query string, limit int) ([]songResult, error) {
	if c.logger != nil {
		c.logger.Debug("jiosaavn: searching", "query", query, "limit", limit)
	}

	endpoint := fmt.Sprintf("%s/api/search/songs?query=%s&limit=%s",
		c.baseURL, url.QueryEscape(query), strconv.Itoa(limit))

	var result searchResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result.Data.Results, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
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
			return nil, fmt.Errorf("jiosaavn: unexpected status code %d", resp.StatusCode)
		}

		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("jiosaavn: decode response: %w", err)
		}
		return nil, nil
	})
	return err
}
