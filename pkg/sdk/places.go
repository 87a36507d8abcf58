package nearbite

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/nearbite/internal/domain"
)

// Discover returns the food places within radius meters of (lat, lon),
// nearest first. Individual failing search queries are skipped.
func (c *Client) Discover(ctx context.Context, lat, lon float64, radius int) (out []Place, err error) {
	start := time.Now()
	defer func() { c.obs.observe("discover", start, outcome{results: len(out), err: err}) }()

	center, err := domain.NewCoordinate(lat, lon)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	found, err := c.discoverySvc.Discover(ctx, center, radius)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	out = make([]Place, len(found))
	for i, p := range found {
		out[i] = placeFromDomain(p)
	}
	return out, nil
}

// DiscoverDetailed is Discover with every place enriched by a details lookup.
// Places whose details cannot be fetched are left out; at most one record per name is kept.
func (c *Client) DiscoverDetailed(ctx context.Context, lat, lon float64, radius int) (out []PlaceDetail, err error) {
	start := time.Now()
	defer func() { c.obs.observe("discover_detailed", start, outcome{results: len(out), err: err}) }()

	center, err := domain.NewCoordinate(lat, lon)
	if err != nil {
		return nil, fmt.Errorf("discover detailed: %w", err)
	}
	found, err := c.discoverySvc.DiscoverDetailed(ctx, center, radius)
	if err != nil {
		return nil, fmt.Errorf("discover detailed: %w", err)
	}
	out = make([]PlaceDetail, len(found))
	for i, p := range found {
		out[i] = detailFromDomain(p)
	}
	return out, nil
}

// PlaceDetails fetches one place. Returns ErrNotFound when the provider has no usable record.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (_ PlaceDetail, err error) {
	start := time.Now()
	defer func() { c.obs.observe("place_details", start, outcome{results: 1, err: err}) }()

	d, err := c.discoverySvc.PlaceDetails(ctx, placeID)
	if err != nil {
		return PlaceDetail{}, fmt.Errorf("place details: %w", err)
	}
	return detailFromDomain(d), nil
}

// Geocode resolves free text into coordinates.
// Provider failures yield an empty list, not an error.
func (c *Client) Geocode(ctx context.Context, query string) (out []GeocodeHit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("geocode", start, outcome{results: len(out), err: err}) }()

	hits, err := c.geocodeSvc.Geocode(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	out = make([]GeocodeHit, len(hits))
	for i, h := range hits {
		out[i] = GeocodeHit(h)
	}
	return out, nil
}
