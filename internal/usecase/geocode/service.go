package geocode

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearbite/internal/domain"
	logpkg "github.com/kailas-cloud/nearbite/internal/logger"
	"github.com/kailas-cloud/nearbite/internal/transport/places"
)

// Geocoder resolves free text into provider matches.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*places.GeocodeResponse, error)
}

// Service turns an address or landmark into coordinates.
type Service struct {
	client Geocoder
	logger *zap.Logger
}

// New creates a geocode service.
func New(client Geocoder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// Geocode returns the matches for query. Provider failures are logged and
// yield an empty list.
func (s *Service) Geocode(ctx context.Context, query string) ([]domain.GeocodeHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidRequest)
	}

	hits := []domain.GeocodeHit{}
	resp, err := s.client.Geocode(ctx, query)
	if err != nil {
		logpkg.FromContextOr(ctx, s.logger).Warn("Geocode failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return hits, nil
	}

	for _, r := range resp.Results {
		if r.Geometry.Location == nil {
			continue
		}
		hits = append(hits, domain.GeocodeHit{
			Address: r.FormattedAddress,
			Lat:     r.Geometry.Location.Lat,
			Lon:     r.Geometry.Location.Lng,
		})
	}
	return hits, nil
}
