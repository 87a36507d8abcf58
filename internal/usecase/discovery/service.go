package discovery

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearbite/internal/domain"
	logpkg "github.com/kailas-cloud/nearbite/internal/logger"
)

// DefaultRadius is the search radius in meters when the client sends none.
const DefaultRadius = 500

// candidateSearcher is the composite search contract.
type candidateSearcher interface {
	Search(ctx context.Context, center domain.Coordinate, radius int) map[string]domain.PlaceCandidate
}

// detailAggregator is the concurrent details contract.
type detailAggregator interface {
	FetchAll(ctx context.Context, ids []string) map[string]domain.PlaceDetail
}

// Service runs the discovery pipeline: composite search, optional detail
// aggregation, then the distance filter.
type Service struct {
	searcher   candidateSearcher
	aggregator detailAggregator
	fetcher    placeFetcher
	logger     *zap.Logger
}

// New creates a discovery service.
func New(searcher candidateSearcher, aggregator detailAggregator, fetcher placeFetcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{searcher: searcher, aggregator: aggregator, fetcher: fetcher, logger: logger}
}

// Discover returns the candidates within radius meters of center, nearest first.
func (s *Service) Discover(ctx context.Context, center domain.Coordinate, radius int) ([]domain.PlaceCandidate, error) {
	if err := validate(center, radius); err != nil {
		return nil, err
	}

	found := s.searcher.Search(ctx, center, radius)
	candidates := make([]domain.PlaceCandidate, 0, len(found))
	for _, c := range found {
		candidates = append(candidates, c)
	}

	out := domain.WithinRadius(candidates, center, float64(radius))
	sortByDistance(out, center, func(c domain.PlaceCandidate) string { return c.PlaceID })

	logpkg.FromContextOr(ctx, s.logger).Info("Discovery completed",
		zap.Int("radius", radius),
		zap.Int("candidates", len(found)),
		zap.Int("within_radius", len(out)),
	)
	return out, nil
}

// DiscoverDetailed enriches every candidate with its details before filtering by distance.
func (s *Service) DiscoverDetailed(ctx context.Context, center domain.Coordinate, radius int) ([]domain.PlaceDetail, error) {
	if err := validate(center, radius); err != nil {
		return nil, err
	}

	found := s.searcher.Search(ctx, center, radius)
	ids := make([]string, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	byName := s.aggregator.FetchAll(ctx, ids)
	details := make([]domain.PlaceDetail, 0, len(byName))
	for _, d := range byName {
		details = append(details, d)
	}

	out := domain.WithinRadius(details, center, float64(radius))
	sortByDistance(out, center, func(d domain.PlaceDetail) string { return d.PlaceID })

	logpkg.FromContextOr(ctx, s.logger).Info("Detailed discovery completed",
		zap.Int("radius", radius),
		zap.Int("candidates", len(found)),
		zap.Int("fetched", len(byName)),
		zap.Int("within_radius", len(out)),
	)
	return out, nil
}

// PlaceDetails returns one normalized record, or domain.ErrNotFound.
func (s *Service) PlaceDetails(ctx context.Context, placeID string) (domain.PlaceDetail, error) {
	if placeID == "" {
		return domain.PlaceDetail{}, fmt.Errorf("empty place id: %w", domain.ErrInvalidRequest)
	}
	d, err := s.fetcher.Fetch(ctx, placeID)
	if err != nil {
		return domain.PlaceDetail{}, err
	}
	if d == nil {
		return domain.PlaceDetail{}, fmt.Errorf("place %s: %w", placeID, domain.ErrNotFound)
	}
	return *d, nil
}

func validate(center domain.Coordinate, radius int) error {
	if _, err := domain.NewCoordinate(center.Lat, center.Lon); err != nil {
		return err
	}
	if radius <= 0 {
		return fmt.Errorf("radius must be positive, got %d: %w", radius, domain.ErrInvalidRequest)
	}
	return nil
}

// sortByDistance orders items nearest first; ties break on id so output is stable.
func sortByDistance[T domain.Positioned](items []T, center domain.Coordinate, id func(T) string) {
	slices.SortFunc(items, func(a, b T) int {
		if c := cmp.Compare(center.DistanceTo(a.Position()), center.DistanceTo(b.Position())); c != 0 {
			return c
		}
		return cmp.Compare(id(a), id(b))
	})
}
