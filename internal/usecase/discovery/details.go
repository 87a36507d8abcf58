package discovery

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/nearbite/internal/domain"
	"github.com/kailas-cloud/nearbite/internal/domain/batch"
	logpkg "github.com/kailas-cloud/nearbite/internal/logger"
	"github.com/kailas-cloud/nearbite/internal/metrics"
	"github.com/kailas-cloud/nearbite/internal/transport/places"
)

// DetailFields is the field selector sent with every details request.
var DetailFields = []string{
	"place_id", "name", "geometry", "rating", "user_ratings_total", "price_level",
	"opening_hours", "formatted_phone_number", "website", "photo", "review", "type",
}

// PlaceholderImageBase is used when a place has no photos; the escaped name is appended.
const PlaceholderImageBase = "https://placehold.co/600x400/F5EBE0/424242?text="

// DefaultDetailWorkers bounds concurrent details requests per discovery call.
const DefaultDetailWorkers = 15

// DetailFetcher fetches and normalizes a single place record.
type DetailFetcher struct {
	client      DetailsProvider
	callTimeout time.Duration
}

// NewDetailFetcher creates a fetcher. callTimeout <= 0 leaves the deadline to the caller.
func NewDetailFetcher(client DetailsProvider, callTimeout time.Duration) *DetailFetcher {
	return &DetailFetcher{client: client, callTimeout: callTimeout}
}

// Fetch returns the normalized record for placeID.
// It returns nil, nil when the provider has no usable record (non-OK status or no location);
// an error only for transport failures.
func (f *DetailFetcher) Fetch(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	if f.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.callTimeout)
		defer cancel()
	}

	resp, err := f.client.Details(ctx, placeID, DetailFields)
	if err != nil {
		return nil, fmt.Errorf("place details %s: %w", placeID, err)
	}
	if resp.Status != places.StatusOK {
		return nil, nil
	}
	return normalizeDetail(&resp.Result, f.client.PhotoURL), nil
}

// normalizeDetail turns a provider record into the client-facing shape.
func normalizeDetail(r *places.PlaceResult, photoURL func(string) string) *domain.PlaceDetail {
	if r.Geometry == nil || r.Geometry.Location == nil {
		return nil
	}

	d := &domain.PlaceDetail{
		PlaceID: r.PlaceID,
		Name:    r.Name,
		Lat:     r.Geometry.Location.Lat,
		Lon:     r.Geometry.Location.Lng,
		Hours:   hoursLabel(r.OpeningHours),
		Types:   r.Types,
		Details: domain.Details{
			Photos:       photoURLs(r, photoURL),
			Reviews:      reviews(r.Reviews),
			OpeningHours: domain.OpeningHours{WeekdayText: []string{}},
			Phone:        r.FormattedPhoneNumber,
			Website:      r.Website,
		},
	}
	if d.Types == nil {
		d.Types = []string{}
	}
	if r.Rating != nil {
		d.Rating = *r.Rating
	}
	if r.PriceLevel != nil {
		d.PriceLevel = *r.PriceLevel
	}
	if r.OpeningHours != nil && r.OpeningHours.WeekdayText != nil {
		d.Details.OpeningHours.WeekdayText = r.OpeningHours.WeekdayText
	}
	if d.Details.Website == "" {
		d.Details.Website = domain.WebsiteUnknown
	}
	return d
}

func hoursLabel(oh *places.OpeningHours) string {
	switch {
	case oh == nil:
		return domain.HoursUnknown
	case oh.OpenNow:
		return domain.HoursOpen
	default:
		return domain.HoursClosed
	}
}

func photoURLs(r *places.PlaceResult, photoURL func(string) string) []string {
	if len(r.Photos) == 0 {
		return []string{PlaceholderImageBase + url.QueryEscape(r.Name)}
	}
	n := min(len(r.Photos), domain.MaxPhotos)
	out := make([]string, 0, n)
	for _, p := range r.Photos[:n] {
		out = append(out, photoURL(p.PhotoReference))
	}
	return out
}

// reviews keeps reviews with non-empty text.
func reviews(in []places.Review) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, rv := range in {
		if rv.Text == "" {
			continue
		}
		out = append(out, domain.Review{
			AuthorName:              rv.AuthorName,
			AuthorURL:               rv.AuthorURL,
			ProfilePhotoURL:         rv.ProfilePhotoURL,
			Rating:                  rv.Rating,
			RelativeTimeDescription: rv.RelativeTimeDescription,
			Text:                    rv.Text,
			Time:                    rv.Time,
		})
	}
	return out
}

// placeFetcher is the single-record contract the aggregator fans out over.
type placeFetcher interface {
	Fetch(ctx context.Context, placeID string) (*domain.PlaceDetail, error)
}

// DetailAggregator fetches many records through a bounded worker pool.
type DetailAggregator struct {
	fetcher placeFetcher
	workers int
	logger  *zap.Logger
}

// NewDetailAggregator creates an aggregator; workers <= 0 uses DefaultDetailWorkers.
func NewDetailAggregator(fetcher placeFetcher, workers int, logger *zap.Logger) *DetailAggregator {
	if workers <= 0 {
		workers = DefaultDetailWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailAggregator{fetcher: fetcher, workers: workers, logger: logger}
}

// FetchAll fetches every id and returns the successful records keyed by name.
// When two ids resolve to the same name the first to complete wins.
// A failed or empty fetch only drops its own id.
func (a *DetailAggregator) FetchAll(ctx context.Context, ids []string) map[string]domain.PlaceDetail {
	log := logpkg.FromContextOr(ctx, a.logger)

	results := a.collect(ctx, log, ids)
	merged := mergeByName(batch.Successful(results))

	log.Debug("Detail aggregation finished",
		zap.Int("requested", len(ids)),
		zap.Int("fetched", len(merged)),
	)
	return merged
}

// collect runs one task per id and returns outcomes in completion order.
func (a *DetailAggregator) collect(ctx context.Context, log *zap.Logger, ids []string) []batch.Result[domain.PlaceDetail] {
	var (
		mu      sync.Mutex
		results = make([]batch.Result[domain.PlaceDetail], 0, len(ids))
	)

	// Tasks never return an error, so the group context is never cancelled by a sibling.
	var g errgroup.Group
	g.SetLimit(a.workers)
	for _, id := range ids {
		g.Go(func() error {
			res := a.fetchOne(ctx, log, id)
			metrics.DetailFetchesTotal.WithLabelValues(string(res.Status())).Inc()

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (a *DetailAggregator) fetchOne(ctx context.Context, log *zap.Logger, id string) batch.Result[domain.PlaceDetail] {
	d, err := a.fetcher.Fetch(ctx, id)
	if err != nil {
		log.Warn("Place details fetch failed", zap.String("place_id", id), zap.Error(err))
		return batch.NewSkipped[domain.PlaceDetail](id, err)
	}
	if d == nil || d.Name == "" {
		return batch.NewSkipped[domain.PlaceDetail](id, nil)
	}
	return batch.NewOK(id, *d)
}

// mergeByName keys records by name, first occurrence wins.
func mergeByName(details []domain.PlaceDetail) map[string]domain.PlaceDetail {
	out := make(map[string]domain.PlaceDetail, len(details))
	for _, d := range details {
		if _, exists := out[d.Name]; exists {
			continue
		}
		out[d.Name] = d
	}
	return out
}
