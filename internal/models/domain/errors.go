package domain

import "errors"

// Failure taxonomy shared across the pipeline. Wrapped with fmt.Errorf("...: %w", ...)
// at call sites and checked with errors.Is at the transport boundary.
var (
	// ErrUnauthorized: bad or missing credential; terminal for the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstreamFetch: a source platform or target URL could not be retrieved.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrMalformedPayload: an upstream response could not be parsed into native items.
	ErrMalformedPayload = errors.New("malformed upstream payload")
	// ErrExtractionFailed: the model's reply could not be reduced to structured data.
	ErrExtractionFailed = errors.New("could not extract event details")
	// ErrSyncFailed: a whole-adapter failure before any batch could be formed.
	ErrSyncFailed = errors.New("sync failed")
)
