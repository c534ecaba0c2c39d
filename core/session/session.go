package session

import (
	"context"
	"sync"

	"github.com/vibestream/vibestream/core"
	"github.com/vibestream/vibestream/core/provider"
	"github.com/vibestream/vibestream/core/resolver"
)

// Resolver is the resolution dependency of a Session.
type Resolver interface {
	Resolve(ctx context.Context, track provider.Track) resolver.Result
}

// Session serializes playback resolution for one user: each track
// selection starts at most one in-flight resolution, and a newer
// selection supersedes a still-pending older one. Stale results are
// dropped so a slow early resolution can never overwrite the playback
// state of a later selection.
type Session struct {
	resolver Resolver
	pool     core.WorkerPool
	logger   core.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc

	// OnResolved is invoked with the winning resolution of the latest
	// selection. OnFailed receives the classified reason instead.
	// Both run on a worker goroutine.
	OnResolved func(track provider.Track, result resolver.Result)
	OnFailed   func(track provider.Track, reason resolver.Kind)
}

// New creates a playback session.
func New(res Resolver, pool core.WorkerPool, logger core.Logger) *Session {
	return &Session{resolver: res, pool: pool, logger: logger}
}

// Play requests playback of a track. Any pending resolution is cancelled
// and its eventual result ignored.
func (s *Session) Play(ctx context.Context, track provider.Track) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	playCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	err := s.pool.Submit(func() {
		defer cancel()
		result := s.resolver.Resolve(playCtx, track)
		if s.stale(gen) {
			if s.logger != nil {
				s.logger.Debug("dropping stale resolution", "track", track.ID)
			}
			return
		}
		if result.Failed {
			if s.OnFailed != nil {
				s.OnFailed(track, result.Reason)
			}
			return
		}
		if s.OnResolved != nil {
			s.OnResolved(track, result)
		}
	})
	if err != nil && s.logger != nil {
		s.logger.Error("submit resolution", "track", track.ID, "error", err)
	}
}

// Stop cancels any in-flight resolution and invalidates its result.
func (s *Session) Stop() {
	s.mu.Lock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
}

func (s *Session) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.gen
}
