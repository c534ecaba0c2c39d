package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vibestream/vibestream/core/provider"
)

func TestOpenSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/webm")
		_, _ = w.Write([]byte("audio-bytes"))
	}))
	defer upstream.Close()

	s := NewService(Options{}, nil)
	up, err := s.Open(context.Background(), upstream.URL)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer up.Body.Close()

	if up.ContentType != "audio/webm" {
		t.Fatalf("unexpected content type: %s", up.ContentType)
	}
	data, _ := io.ReadAll(up.Body)
	if string(data) != "audio-bytes" {
		t.Fatalf("unexpected body: %s", data)
	}
}

func TestOpenStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusForbidden, provider.ErrAccessRestricted},
		{http.StatusNotFound, provider.ErrUnavailable},
		{http.StatusGone, provider.ErrUnavailable},
		{http.StatusBadGateway, provider.ErrUpstreamTransport},
	}

	for _, tc := range cases {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		s := NewService(Options{}, nil)
		_, err := s.Open(context.Background(), upstream.URL)
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v, want %v", tc.status, err, tc.want)
		}
		upstream.Close()
	}
}

func TestOpenEmptyURL(t *testing.T) {
	s := NewService(Options{}, nil)
	if _, err := s.Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty URL")
	}
}

func TestPipeCopiesEverything(t *testing.T) {
	payload := strings.Repeat("abcdefgh", 100_000)
	s := NewService(Options{BufferKB: 4}, nil)

	var dst bytes.Buffer
	written, err := s.Pipe(&dst, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if written != int64(len(payload)) {
		t.Fatalf("written = %d, want %d", written, len(payload))
	}
	if dst.String() != payload {
		t.Fatal("payload corrupted in transit")
	}
}

type failingWriter struct {
	limit int
	n     int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	if w.n > w.limit {
		return 0, errors.New("client went away")
	}
	return len(p), nil
}

func TestPipeReportsWriterError(t *testing.T) {
	s := NewService(Options{BufferKB: 1}, nil)

	_, err := s.Pipe(&failingWriter{limit: 2048}, strings.NewReader(strings.Repeat("x", 1<<20)))
	if err == nil {
		t.Fatal("expected writer error to surface")
	}
}
