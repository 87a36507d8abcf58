package nearbite

import (
	"context"

	"github.com/kailas-cloud/nearbite/internal/domain"
)

// Opening-status labels used in PlaceDetail.Hours.
const (
	HoursOpen    = domain.HoursOpen
	HoursClosed  = domain.HoursClosed
	HoursUnknown = domain.HoursUnknown
)

// Place is a search candidate.
type Place struct {
	PlaceID string
	Name    string
	Lat     float64
	Lon     float64
	Types   []string
	IsOpen  bool
}

// PlaceDetail is a fully enriched venue.
type PlaceDetail struct {
	PlaceID     string
	Name        string
	Lat         float64
	Lon         float64
	Rating      float64
	PriceLevel  int
	Hours       string // HoursOpen, HoursClosed or HoursUnknown
	Types       []string
	Photos      []string
	Reviews     []Review
	WeekdayText []string
	Phone       string
	Website     string // "#" when unknown
}

// Review is a single user review.
type Review struct {
	AuthorName   string
	Rating       float64
	RelativeTime string
	Text         string
	Time         int64
}

// GeocodeHit is one geocoding match.
type GeocodeHit struct {
	Address string
	Lat     float64
	Lon     float64
}

// TextGenerator turns a prompt into model text. Supply your own with WithGenerator.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (GenerationResult, error)
}

// GenerationResult carries the model text and token usage.
type GenerationResult struct {
	Text         string
	PromptTokens int
	TotalTokens  int
}

func placeFromDomain(c domain.PlaceCandidate) Place {
	return Place{
		PlaceID: c.PlaceID,
		Name:    c.Name,
		Lat:     c.Lat,
		Lon:     c.Lon,
		Types:   c.Types,
		IsOpen:  c.IsOpen,
	}
}

func detailFromDomain(d domain.PlaceDetail) PlaceDetail {
	reviews := make([]Review, len(d.Details.Reviews))
	for i, r := range d.Details.Reviews {
		reviews[i] = Review{
			AuthorName:   r.AuthorName,
			Rating:       r.Rating,
			RelativeTime: r.RelativeTimeDescription,
			Text:         r.Text,
			Time:         r.Time,
		}
	}
	return PlaceDetail{
		PlaceID:     d.PlaceID,
		Name:        d.Name,
		Lat:         d.Lat,
		Lon:         d.Lon,
		Rating:      d.Rating,
		PriceLevel:  d.PriceLevel,
		Hours:       d.Hours,
		Types:       d.Types,
		Photos:      d.Details.Photos,
		Reviews:     reviews,
		WeekdayText: d.Details.OpeningHours.WeekdayText,
		Phone:       d.Details.Phone,
		Website:     d.Details.Website,
	}
}
