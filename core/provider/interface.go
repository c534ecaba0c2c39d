package provider

import "context"

// Provider defines the interface all upstream content providers satisfy.
// Implementations must be safe for concurrent use by multiple goroutines.
type Provider interface {
	// Name returns the provider identifier (e.g. "youtube", "jiosaavn").
	// The name is lowercase and URL-safe.
	Name() string

	// Source returns the provider's source enum value.
	Source() Source

	// Search searches for tracks matching the query. The limit parameter
	// controls the maximum number of results to return. Implementations
	// return their native errors; orchestration layers degrade errors to
	// empty results (see Registry.SafeSearch).
	Search(ctx context.Context, query string, limit int) ([]Track, error)

	// TestConnectivity reports whether the upstream API is reachable.
	TestConnectivity(ctx context.Context) bool
}

// Extractor is the capability interface for providers whose tracks need
// server-side extraction of audio renditions before playback.
type Extractor interface {
	// Extract resolves the raw (unprefixed) media ID into the candidate
	// renditions of the upstream item. Failures carry one of the provider
	// sentinel errors.
	Extract(ctx context.Context, id string) ([]Rendition, error)
}
