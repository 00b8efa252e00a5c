package services

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced by the services. Handlers map these onto HTTP
// statuses; response bodies stay generic and the detail goes to the log.
var (
	// ErrUpstreamUnavailable - upstream API unreachable or non-OK status
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrMalformedResponse - upstream body did not have the expected shape
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrNotConfigured - a required operator secret/token is missing
	ErrNotConfigured = errors.New("service not configured")
	// ErrQueryTooShort - search query under the 2-character minimum
	ErrQueryTooShort = errors.New("query must be at least 2 characters")
)

// ProviderError carries a geocoding provider's failure status so the
// handler can forward it.
type ProviderError struct {
	Status int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("search provider returned status %d", e.Status)
}
