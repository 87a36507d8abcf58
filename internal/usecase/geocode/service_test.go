package geocode

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/nearbite/internal/domain"
	"github.com/kailas-cloud/nearbite/internal/transport/places"
)

type mockGeocoder struct {
	resp  *places.GeocodeResponse
	err   error
	calls int
	query string
}

func (m *mockGeocoder) Geocode(_ context.Context, query string) (*places.GeocodeResponse, error) {
	m.calls++
	m.query = query
	return m.resp, m.err
}

func TestGeocode_Hits(t *testing.T) {
	m := &mockGeocoder{resp: &places.GeocodeResponse{
		Status: places.StatusOK,
		Results: []places.GeocodeResult{
			{FormattedAddress: "台北101", Geometry: places.Geometry{Location: &places.LatLng{Lat: 25.0340, Lng: 121.5645}}},
			{FormattedAddress: "no location"},
		},
	}}

	got, err := New(m, nil).Geocode(context.Background(), "  台北101 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.query != "台北101" {
		t.Errorf("query should be trimmed, got %q", m.query)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(got))
	}
	if got[0].Address != "台北101" || got[0].Lat != 25.0340 || got[0].Lon != 121.5645 {
		t.Errorf("unexpected hit %+v", got[0])
	}
}

func TestGeocode_ProviderErrorYieldsEmpty(t *testing.T) {
	m := &mockGeocoder{err: domain.ErrPlacesProviderError}

	got, err := New(m, nil).Geocode(context.Background(), "somewhere")
	if err != nil {
		t.Fatalf("provider errors should not surface, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestGeocode_BlankQuery(t *testing.T) {
	m := &mockGeocoder{}

	_, err := New(m, nil).Geocode(context.Background(), "   ")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
	if m.calls != 0 {
		t.Error("blank query must not reach the provider")
	}
}
