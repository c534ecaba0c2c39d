package resolver

import (
	"context"

	"github.com/vibestream/vibestream/core"
	"github.com/vibestream/vibestream/core/provider"
)

// Result is the outcome of one resolution attempt. It is consumed
// immediately by the proxy or player and never persisted.
type Result struct {
	// URL is the playable stream URL when resolution succeeded.
	URL string `json:"url,omitempty"`

	// Source is the provider the resolved URL came from.
	Source provider.Source `json:"source"`

	// SubstitutionNote is set when the fallback chain swapped in a track
	// from a different provider; it names the swap for the user.
	SubstitutionNote string `json:"substitution_note,omitempty"`

	// Failed reports whether resolution failed; Reason then carries the
	// classified cause.
	Failed bool `json:"failed,omitempty"`
	Reason Kind `json:"reason,omitempty"`
}

// Resolved builds a successful result.
func Resolved(url string, source provider.Source) Result {
	return Result{URL: url, Source: source}
}

// Failure builds a failed result with the classified reason.
func Failure(reason Kind) Result {
	return Result{Failed: true, Reason: reason}
}

// Options configure a Resolver.
type Options struct {
	// FallbackProvider is searched with degrading queries when the
	// primary source fails (default "jiosaavn").
	FallbackProvider string

	// LastResortProvider is queried once, title+artist, when the fallback
	// provider yields nothing usable (default "itunes").
	LastResortProvider string

	// SearchLimit bounds each fallback search (default 10).
	SearchLimit int
}

// Resolver turns a Track reference into a directly playable URL, owning
// the provider fallback chain and error classification.
type Resolver struct {
	registry   *provider.Registry
	fallback   string
	lastResort string
	limit      int
	logger     core.Logger
}

// New creates a Resolver over the given registry.
func New(registry *provider.Registry, opts Options, logger core.Logger) *Resolver {
	if opts.FallbackProvider == "" {
		opts.FallbackProvider = provider.SourceJioSaavn.String()
	}
	if opts.LastResortProvider == "" {
		opts.LastResortProvider = provider.SourceITunes.String()
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 10
	}
	return &Resolver{
		registry:   registry,
		fallback:   opts.FallbackProvider,
		lastResort: opts.LastResortProvider,
		limit:      opts.SearchLimit,
		logger:     logger,
	}
}

// Resolve produces a playable URL for the track:
//
//  1. A track that already carries a direct URL resolves immediately.
//  2. Extraction providers go through Extract + BestRendition.
//  3. On extraction failure the fallback search runs; if it finds a
//     usable substitute the result carries a substitution note, otherwise
//     the failure keeps the reason classified in step 2.
//
// Resolve has no side effects beyond outbound HTTP calls and may be
// retried at will; a repeat performs the same extraction again and can
// yield a different time-limited upstream URL.
func (r *Resolver) Resolve(ctx context.Context, track provider.Track) Result {
	if url := track.StreamURL(); url != "" {
		return Resolved(url, track.Source)
	}

	url, reason := r.extract(ctx, track)
	if url != "" {
		return Resolved(url, track.Source)
	}

	if sub, note := r.FindSubstitute(ctx, track); sub != nil {
		if r.logger != nil {
			r.logger.Info("substituted track after primary failure",
				"track", track.ID, "substitute", sub.ID, "reason", reason.String())
		}
		return Result{URL: sub.StreamURL(), Source: sub.Source, SubstitutionNote: note}
	}

	return Failure(reason)
}

// extract runs provider-specific extraction and format selection. On
// success the rendition URL is returned; otherwise the classified
// failure reason.
func (r *Resolver) extract(ctx context.Context, track provider.Track) (string, Kind) {
	p := r.registry.BySource(track.Source)
	if p == nil {
		if r.logger != nil {
			r.logger.Warn("no provider registered for source", "source", track.Source.String())
		}
		return "", KindNotFound
	}

	ext, ok := p.(provider.Extractor)
	if !ok {
		// Non-extraction provider without a direct URL: the track was
		// never playable to begin with.
		return "", KindNotFound
	}

	renditions, err := ext.Extract(ctx, provider.RawID(track.ID))
	if err != nil {
		kind := Classify(err)
		if r.logger != nil {
			r.logger.Warn("extraction failed", "track", track.ID, "kind", kind.String(), "error", err)
		}
		return "", kind
	}

	best, ok := provider.BestRendition(renditions)
	if !ok {
		return "", KindNoSuitableFormat
	}
	return best.URL, KindNoSuitableFormat
}
