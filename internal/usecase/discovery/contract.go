package discovery

import (
	"context"

	"github.com/kailas-cloud/nearbite/internal/transport/places"
)

// NearbySearcher runs a single nearby-search page request.
type NearbySearcher interface {
	NearbySearch(ctx context.Context, req places.NearbyRequest) (*places.NearbySearchResponse, error)
}

// DetailsProvider fetches one place record and builds photo URLs.
type DetailsProvider interface {
	Details(ctx context.Context, placeID string, fields []string) (*places.DetailsResponse, error)
	PhotoURL(photoReference string) string
}
