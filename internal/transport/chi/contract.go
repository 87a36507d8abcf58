package chi

import (
	"context"

	"github.com/kailas-cloud/nearbite/internal/domain"
	healthuc "github.com/kailas-cloud/nearbite/internal/usecase/health"
)

// Discoverer runs the place discovery pipeline.
type Discoverer interface {
	Discover(ctx context.Context, center domain.Coordinate, radius int) ([]domain.PlaceCandidate, error)
	DiscoverDetailed(ctx context.Context, center domain.Coordinate, radius int) ([]domain.PlaceDetail, error)
	PlaceDetails(ctx context.Context, placeID string) (domain.PlaceDetail, error)
}

// Classifier groups venues into food-type categories.
type Classifier interface {
	Classify(ctx context.Context, items []domain.ClassifyItem) domain.CategoryMap
}

// Geocoder resolves free text into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]domain.GeocodeHit, error)
}

// HealthReporter aggregates dependency checks.
type HealthReporter interface {
	Check(ctx context.Context) healthuc.Report
}
