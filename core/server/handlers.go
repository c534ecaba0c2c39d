package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/vibestream/vibestream/core/provider"
	"github.com/vibestream/vibestream/core/resolver"
	"golang.org/x/sync/errgroup"
)

type durationInfo struct {
	Seconds int    `json:"seconds"`
	Text    string `json:"text"`
}

type searchResult struct {
	Title     string       `json:"title"`
	VideoID   string       `json:"videoId"`
	URL       string       `json:"url"`
	Thumbnail string       `json:"thumbnail"`
	Duration  durationInfo `json:"duration"`
	Channel   string       `json:"channel"`
}

type formatInfo struct {
	Quality      string `json:"quality"`
	AudioBitrate int    `json:"audioBitrate"`
	HasAudio     bool   `json:"hasAudio"`
	HasVideo     bool   `json:"hasVideo"`
}

type audioPointer struct {
	StreamURL string     `json:"streamUrl"`
	Format    formatInfo `json:"format"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Missing query", http.StatusBadRequest)
		return
	}

	tracks := s.registry.SafeSearch(r.Context(), s.primary, query, s.searchLimit)

	results := make([]searchResult, 0, len(tracks))
	for _, t := range tracks {
		results = append(results, searchResult{
			Title:     t.Title,
			VideoID:   provider.RawID(t.ID),
			URL:       t.PageURL,
			Thumbnail: t.ArtworkURL,
			Duration:  durationInfo{Seconds: t.DurationSeconds, Text: t.DurationText},
			Channel:   t.Artist,
		})
	}

	writeJSON(w, http.StatusOK, results)
}

// handleAudio extracts the requested video's audio renditions, picks the
// best one, and either pipes the bytes through or returns the upstream
// URL, depending on the configured delivery mode.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	if videoID == "" {
		http.Error(w, "Missing videoId", http.StatusBadRequest)
		return
	}

	p := s.registry.Get(s.primary)
	ext, ok := p.(provider.Extractor)
	if !ok {
		http.Error(w, "Audio extraction not available", http.StatusInternalServerError)
		return
	}

	renditions, err := ext.Extract(r.Context(), videoID)
	if err != nil {
		s.writeKindError(w, resolver.Classify(err))
		return
	}

	best, ok := provider.BestRendition(renditions)
	if !ok {
		s.writeKindError(w, resolver.KindNoSuitableFormat)
		return
	}

	if s.mode == DeliveryRedirect {
		writeJSON(w, http.StatusOK, audioPointer{
			StreamURL: best.URL,
			Format: formatInfo{
				Quality:      best.QualityLabel,
				AudioBitrate: best.AudioBitrate,
				HasAudio:     best.HasAudio,
				HasVideo:     best.HasVideo,
			},
		})
		return
	}

	s.pipeAudio(w, r, videoID, best.URL)
}

func (s *Server) pipeAudio(w http.ResponseWriter, r *http.Request, videoID, url string) {
	upstream, err := s.streams.Open(r.Context(), url)
	if err != nil {
		s.writeKindError(w, resolver.Classify(err))
		return
	}
	defer upstream.Body.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Accept-Ranges", "bytes")
	w.WriteHeader(http.StatusOK)

	// Headers are sent; a failure past this point can only terminate the
	// connection, the partial bytes are already on the wire.
	written, err := s.streams.Pipe(w, upstream.Body)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("audio stream interrupted",
				"video_id", videoID, "written", written, "error", err)
		}
		return
	}
	if s.logger != nil {
		s.logger.Debug("audio stream complete", "video_id", videoID, "written", written)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	names := s.registry.Names()
	status := make(map[string]bool, len(names))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(r.Context())
	for _, name := range names {
		p := s.registry.Get(name)
		if p == nil {
			continue
		}
		g.Go(func() error {
			ok := p.TestConnectivity(ctx)
			mu.Lock()
			status[p.Name()] = ok
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	writeJSON(w, http.StatusOK, map[string]any{
		"providers": status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeKindError maps a failure kind to a fixed status and message.
// Upstream error details never reach the client.
func (s *Server) writeKindError(w http.ResponseWriter, kind resolver.Kind) {
	status, message := statusForKind(kind)
	http.Error(w, message, status)
}

func statusForKind(kind resolver.Kind) (int, string) {
	switch kind {
	case resolver.KindNotFound:
		return http.StatusNotFound, "Track not found"
	case resolver.KindUnavailable:
		return http.StatusNotFound, "Video unavailable or removed"
	case resolver.KindNoSuitableFormat:
		return http.StatusNotFound, "No suitable audio format found"
	case resolver.KindAccessRestricted:
		return http.StatusForbidden, "Access restricted: sign-in, age, or region required"
	default:
		return http.StatusInternalServerError, "Error streaming audio"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
