package stream

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/vibestream/vibestream/core"
	"github.com/vibestream/vibestream/core/provider"
)

// Upstream is an open connection to the upstream audio stream.
type Upstream struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Service fetches upstream audio streams and pipes them to a writer with
// a fixed-size buffer, so a whole track is never held in memory.
type Service struct {
	client  *http.Client
	bufSize int
	logger  core.Logger
}

// Options configure a stream Service.
type Options struct {
	// Timeout bounds dialing and response headers, not the body transfer;
	// a multi-minute track must keep streaming past it.
	Timeout time.Duration

	// BufferKB is the pipe buffer size in KiB (default 128).
	BufferKB int
}

// NewService creates a streaming service with a tuned transport.
func NewService(opts Options, logger core.Logger) *Service {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   minDuration(opts.Timeout, 10*time.Second),
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   minDuration(opts.Timeout, 10*time.Second),
		ResponseHeaderTimeout: minDuration(opts.Timeout, 10*time.Second),
		ExpectContinueTimeout: 1 * time.Second,
	}

	bufSize := opts.BufferKB * 1024
	if bufSize <= 0 {
		bufSize = 128 * 1024
	}

	return &Service{
		client:  &http.Client{Transport: transport},
		bufSize: bufSize,
		logger:  logger,
	}
}

// Open starts fetching the upstream stream. The caller owns Body and must
// close it; cancelling ctx aborts the fetch, including mid-body.
func (s *Service) Open(ctx context.Context, rawURL string) (*Upstream, error) {
	if rawURL == "" {
		return nil, errors.New("stream url missing")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, provider.NewTransportError("stream", "fetch", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusPartialContent:
	case resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, provider.NewAccessRestrictedError("stream", "", "upstream returned 403")
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		resp.Body.Close()
		return nil, provider.NewUnavailableError("stream", "fetch", "")
	default:
		resp.Body.Close()
		return nil, provider.NewTransportError("stream", "fetch",
			errors.New("unexpected status "+resp.Status))
	}

	return &Upstream{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

// Pipe copies src to dst through the fixed buffer, flushing as bytes
// arrive so playback starts before the track finishes transferring.
func (s *Service) Pipe(dst io.Writer, src io.Reader) (int64, error) {
	flusher, _ := dst.(http.Flusher)
	buf := make([]byte, s.bufSize)
	var written int64

	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if err == io.EOF {
				return written, nil
			}
			return written, err
		}
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a == 0 || a > b {
		return b
	}
	return a
}
