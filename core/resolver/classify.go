package resolver

import (
	"errors"

	"github.com/vibestream/vibestream/core/provider"
)

// Kind is the user-actionable failure category of a resolution attempt.
type Kind int

const (
	// KindUnavailable covers content that was deleted or made private.
	KindUnavailable Kind = iota

	// KindAccessRestricted covers sign-in, age, and region restrictions.
	KindAccessRestricted

	// KindNoSuitableFormat means extraction worked but no rendition
	// carried audio.
	KindNoSuitableFormat

	// KindUpstreamTransport covers network and parse failures.
	KindUpstreamTransport

	// KindNotFound covers bad or unknown track identifiers.
	KindNotFound
)

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindAccessRestricted:
		return "access_restricted"
	case KindNoSuitableFormat:
		return "no_suitable_format"
	case KindUpstreamTransport:
		return "upstream_transport"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Classify maps a provider error to exactly one failure kind.
// Anything unrecognized counts as a transport failure.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, provider.ErrNotFound):
		return KindNotFound
	case errors.Is(err, provider.ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, provider.ErrAccessRestricted):
		return KindAccessRestricted
	case errors.Is(err, provider.ErrNoSuitableFormat):
		return KindNoSuitableFormat
	default:
		return KindUpstreamTransport
	}
}
