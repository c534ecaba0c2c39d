package provider

import (
	"errors"
	"fmt"
)

// Common provider errors that can be checked with errors.Is.
var (
	// ErrNotFound is returned when a track identifier does not exist upstream.
	ErrNotFound = errors.New("provider: track not found")

	// ErrUnavailable is returned when the content has been deleted or made private.
	ErrUnavailable = errors.New("provider: content unavailable")

	// ErrAccessRestricted is returned when playback requires sign-in or is
	// age- or region-restricted.
	ErrAccessRestricted = errors.New("provider: access restricted")

	// ErrNoSuitableFormat is returned when extraction succeeded but no
	// rendition carries an audio stream.
	ErrNoSuitableFormat = errors.New("provider: no suitable audio format")

	// ErrUpstreamTransport is returned on network or parse failures talking
	// to the upstream API.
	ErrUpstreamTransport = errors.New("provider: upstream transport failure")
)

// ProviderError wraps an error with additional provider-specific context.
// The underlying sentinel stays reachable through errors.Is and errors.As.
type ProviderError struct {
	// Provider is the name of the provider that returned the error.
	Provider string

	// Resource is the type of resource that was being accessed
	// (e.g. "track", "search", "extraction").
	Resource string

	// ID is the identifier of the resource (if applicable).
	ID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s %s: %v", e.Provider, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Resource, e.Err)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a ProviderError for an unknown track identifier.
func NewNotFoundError(provider, resource, id string) error {
	return &ProviderError{Provider: provider, Resource: resource, ID: id, Err: ErrNotFound}
}

// NewUnavailableError creates a ProviderError for removed or private content.
func NewUnavailableError(provider, resource, id string) error {
	return &ProviderError{Provider: provider, Resource: resource, ID: id, Err: ErrUnavailable}
}

// NewAccessRestrictedError creates a ProviderError for sign-in, age, or
// region restrictions. The detail is kept out of user-facing messages.
func NewAccessRestrictedError(provider, id, detail string) error {
	err := error(ErrAccessRestricted)
	if detail != "" {
		err = fmt.Errorf("%w: %s", ErrAccessRestricted, detail)
	}
	return &ProviderError{Provider: provider, Resource: "track", ID: id, Err: err}
}

// NewNoSuitableFormatError creates a ProviderError for extractions that
// yielded no usable audio rendition.
func NewNoSuitableFormatError(provider, id string) error {
	return &ProviderError{Provider: provider, Resource: "extraction", ID: id, Err: ErrNoSuitableFormat}
}

// NewTransportError creates a ProviderError wrapping a network/parse failure.
func NewTransportError(provider, resource string, cause error) error {
	err := error(ErrUpstreamTransport)
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrUpstreamTransport, cause)
	}
	return &ProviderError{Provider: provider, Resource: resource, Err: err}
}
