package domain

import "errors"

var (
	// ErrNotFound signals a place the provider could not return.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals malformed client input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidCoordinates signals a latitude or longitude outside the valid range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrPlacesProviderError signals a places/geocoding provider failure.
	ErrPlacesProviderError = errors.New("places provider error")
	// ErrGeneratorError signals a text generation provider failure.
	ErrGeneratorError = errors.New("text generation provider error")
	// ErrMalformedOutput signals generator output that does not match the expected shape.
	ErrMalformedOutput = errors.New("malformed generator output")
)
