package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibestream/vibestream/core/provider"
)

// FindSubstitute re-searches alternate providers for a replacement track
// after the primary source failed, using degrading query strategies:
//
//  1. "{title} {artist}" against the fallback provider.
//  2. On zero results, "{title}" alone.
//  3. On zero results, "{artist}" alone.
//  4. If nothing usable surfaced, "{title} {artist}" against the last
//     resort provider, taking its first result.
//
// The first candidate with a populated URL wins, in provider-returned
// order; availability beats match quality once the primary source has
// already failed.
func (r *Resolver) FindSubstitute(ctx context.Context, track provider.Track) (*provider.Track, string) {
	queries := degradingQueries(track.Title, track.Artist)

	var candidates []provider.Track
	for _, q := range queries {
		candidates = r.registry.SafeSearch(ctx, r.fallback, q, r.limit)
		if len(candidates) > 0 {
			break
		}
	}

	for i := range candidates {
		if candidates[i].Playable() {
			return &candidates[i], substitutionNote(track, candidates[i])
		}
	}

	if len(queries) == 0 {
		return nil, ""
	}
	last := r.registry.SafeSearch(ctx, r.lastResort, queries[0], 5)
	if len(last) > 0 && last[0].Playable() {
		return &last[0], substitutionNote(track, last[0])
	}

	return nil, ""
}

func degradingQueries(title, artist string) []string {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)

	var queries []string
	if title != "" && artist != "" {
		queries = append(queries, title+" "+artist)
	}
	if title != "" {
		queries = append(queries, title)
	}
	if artist != "" {
		queries = append(queries, artist)
	}
	return queries
}

func substitutionNote(original, substitute provider.Track) string {
	return fmt.Sprintf("%s unavailable, playing %q from %s",
		original.Source.String(), substitute.Title, substitute.Source.String())
}
