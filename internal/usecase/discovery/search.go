package discovery

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearbite/internal/domain"
	logpkg "github.com/kailas-cloud/nearbite/internal/logger"
	"github.com/kailas-cloud/nearbite/internal/transport/places"
)

// Defaults for the composite search.
var (
	DefaultSearchTypes = []string{"restaurant", "bar", "cafe"}
	DefaultKeywords    = []string{"內用", "好吃", "消夜", "飲料", "甜點", "素食"}
)

const (
	// DefaultMaxPages is the provider's own cap on continuation pages (20 results each).
	DefaultMaxPages = 3
	// DefaultPageTokenDelay is how long a continuation token needs before it becomes valid.
	DefaultPageTokenDelay = 2 * time.Second
)

// SearchConfig tunes the composite search.
type SearchConfig struct {
	Types          []string
	Keywords       []string
	MaxPages       int
	PageTokenDelay time.Duration
	CallTimeout    time.Duration
}

// Searcher runs every broad type query and every keyword query around a point
// and unions the candidates by place id.
type Searcher struct {
	client NearbySearcher
	cfg    SearchConfig
	sleep  func(ctx context.Context, d time.Duration) error
	logger *zap.Logger
}

// NewSearcher creates a composite searcher. Zero config values fall back to defaults;
// the provider rejects continuation tokens used sooner than DefaultPageTokenDelay.
func NewSearcher(client NearbySearcher, cfg SearchConfig, logger *zap.Logger) *Searcher {
	if cfg.Types == nil {
		cfg.Types = DefaultSearchTypes
	}
	if cfg.Keywords == nil {
		cfg.Keywords = DefaultKeywords
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.PageTokenDelay <= 0 {
		cfg.PageTokenDelay = DefaultPageTokenDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{client: client, cfg: cfg, sleep: sleepContext, logger: logger}
}

// Search returns the union of all query results keyed by place id.
// Later writes for the same id replace earlier ones. Failing queries are logged and skipped,
// so the result is never an error; a cancelled context just ends the search early.
func (s *Searcher) Search(ctx context.Context, center domain.Coordinate, radius int) map[string]domain.PlaceCandidate {
	log := logpkg.FromContextOr(ctx, s.logger)
	out := make(map[string]domain.PlaceCandidate)

	queries := make([]places.NearbyRequest, 0, len(s.cfg.Types)+len(s.cfg.Keywords))
	for _, t := range s.cfg.Types {
		queries = append(queries, places.NearbyRequest{Location: center, Radius: radius, Type: t})
	}
	for _, k := range s.cfg.Keywords {
		queries = append(queries, places.NearbyRequest{Location: center, Radius: radius, Keyword: k})
	}

	for _, q := range queries {
		if ctx.Err() != nil {
			log.Warn("Search interrupted", zap.Int("candidates", len(out)), zap.Error(ctx.Err()))
			break
		}
		s.runQuery(ctx, log, q, out)
	}

	log.Debug("Composite search finished",
		zap.Int("queries", len(queries)),
		zap.Int("candidates", len(out)),
	)
	return out
}

// runQuery follows continuation tokens for one query, writing into out.
func (s *Searcher) runQuery(
	ctx context.Context, log *zap.Logger, q places.NearbyRequest, out map[string]domain.PlaceCandidate,
) {
	req := q
	for page := 0; page < s.cfg.MaxPages; page++ {
		if page > 0 {
			if err := s.sleep(ctx, s.cfg.PageTokenDelay); err != nil {
				return
			}
		}

		resp, err := s.fetchPage(ctx, req)
		if err != nil {
			log.Warn("Nearby search query failed",
				zap.String("type", q.Type),
				zap.String("keyword", q.Keyword),
				zap.Int("page", page),
				zap.Error(err),
			)
			return
		}

		for i := range resp.Results {
			if c, ok := toCandidate(&resp.Results[i]); ok {
				out[c.PlaceID] = c
			}
		}

		if resp.NextPageToken == "" {
			return
		}
		req = places.NearbyRequest{PageToken: resp.NextPageToken}
	}
}

func (s *Searcher) fetchPage(ctx context.Context, req places.NearbyRequest) (*places.NearbySearchResponse, error) {
	if s.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.CallTimeout)
		defer cancel()
	}
	return s.client.NearbySearch(ctx, req)
}

// toCandidate normalizes a search result; results without id or location are dropped.
func toCandidate(r *places.PlaceResult) (domain.PlaceCandidate, bool) {
	if r.PlaceID == "" || r.Geometry == nil || r.Geometry.Location == nil {
		return domain.PlaceCandidate{}, false
	}
	types := r.Types
	if types == nil {
		types = []string{}
	}
	return domain.PlaceCandidate{
		PlaceID: r.PlaceID,
		Name:    r.Name,
		Lat:     r.Geometry.Location.Lat,
		Lon:     r.Geometry.Location.Lng,
		Types:   types,
		IsOpen:  r.OpeningHours != nil && r.OpeningHours.OpenNow,
	}, true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
