package nearbite

import "github.com/kailas-cloud/nearbite/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrInvalidRequest      = domain.ErrInvalidRequest
	ErrInvalidCoordinates  = domain.ErrInvalidCoordinates
	ErrRateLimited         = domain.ErrRateLimited
	ErrPlacesProviderError = domain.ErrPlacesProviderError
	ErrGeneratorError      = domain.ErrGeneratorError
)
