package nearbite

import (
	"context"
	"sync"

	"github.com/kailas-cloud/nearbite/internal/domain"
	classifyuc "github.com/kailas-cloud/nearbite/internal/usecase/classify"
	healthuc "github.com/kailas-cloud/nearbite/internal/usecase/health"
)

type mockDiscovery struct {
	candidates []domain.PlaceCandidate
	details    []domain.PlaceDetail
	byID       map[string]domain.PlaceDetail
	err        error

	mu         sync.Mutex
	lastCenter domain.Coordinate
	lastRadius int
}

func (m *mockDiscovery) record(center domain.Coordinate, radius int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCenter = center
	m.lastRadius = radius
}

func (m *mockDiscovery) Discover(_ context.Context, center domain.Coordinate, radius int) ([]domain.PlaceCandidate, error) {
	m.record(center, radius)
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func (m *mockDiscovery) DiscoverDetailed(
	_ context.Context, center domain.Coordinate, radius int,
) ([]domain.PlaceDetail, error) {
	m.record(center, radius)
	if m.err != nil {
		return nil, m.err
	}
	return m.details, nil
}

func (m *mockDiscovery) PlaceDetails(_ context.Context, placeID string) (domain.PlaceDetail, error) {
	if m.err != nil {
		return domain.PlaceDetail{}, m.err
	}
	d, ok := m.byID[placeID]
	if !ok {
		return domain.PlaceDetail{}, domain.ErrNotFound
	}
	return d, nil
}

type mockClassify struct {
	answer domain.CategoryMap
	stats  classifyuc.Stats

	mu    sync.Mutex
	items []domain.ClassifyItem
}

func (m *mockClassify) ClassifyWithStats(
	_ context.Context, items []domain.ClassifyItem,
) (domain.CategoryMap, classifyuc.Stats) {
	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
	if m.answer == nil {
		return domain.CategoryMap{}, m.stats
	}
	return m.answer, m.stats
}

type mockGeocode struct {
	hits []domain.GeocodeHit
	err  error
}

func (m *mockGeocode) Geocode(_ context.Context, _ string) ([]domain.GeocodeHit, error) {
	return m.hits, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	return m.report
}

func newTestClient(d *mockDiscovery, cl *mockClassify, g *mockGeocode) *Client {
	if d == nil {
		d = &mockDiscovery{}
	}
	if cl == nil {
		cl = &mockClassify{}
	}
	if g == nil {
		g = &mockGeocode{}
	}
	return &Client{
		discoverySvc: d,
		classifySvc:  cl,
		geocodeSvc:   g,
		healthSvc:    &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}},
	}
}

type fakeGenerator struct {
	text     string
	err      error
	probeErr error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (GenerationResult, error) {
	if f.err != nil {
		return GenerationResult{}, f.err
	}
	return GenerationResult{Text: f.text, PromptTokens: 3, TotalTokens: 7}, nil
}

func (f *fakeGenerator) HealthCheck(_ context.Context) error {
	return f.probeErr
}

// plainGenerator has no HealthCheck method.
type plainGenerator struct{}

func (plainGenerator) Generate(_ context.Context, _ string) (GenerationResult, error) {
	return GenerationResult{Text: "{}"}, nil
}
