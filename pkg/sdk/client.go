package nearbite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/nearbite/internal/domain"
	"github.com/kailas-cloud/nearbite/internal/transport/gemini"
	openaiGen "github.com/kailas-cloud/nearbite/internal/transport/openai"
	"github.com/kailas-cloud/nearbite/internal/transport/places"
	classifyuc "github.com/kailas-cloud/nearbite/internal/usecase/classify"
	discoveryuc "github.com/kailas-cloud/nearbite/internal/usecase/discovery"
	geocodeuc "github.com/kailas-cloud/nearbite/internal/usecase/geocode"
	healthuc "github.com/kailas-cloud/nearbite/internal/usecase/health"
)

const (
	defaultLanguage         = "zh-TW"
	defaultCallTimeout      = 10 * time.Second
	defaultGeneratorTimeout = 60 * time.Second
	defaultOpenAIModel      = "gpt-4o-mini"
)

// Internal interfaces, swapped for fakes in tests.
type discoveryUseCase interface {
	Discover(ctx context.Context, center domain.Coordinate, radius int) ([]domain.PlaceCandidate, error)
	DiscoverDetailed(ctx context.Context, center domain.Coordinate, radius int) ([]domain.PlaceDetail, error)
	PlaceDetails(ctx context.Context, placeID string) (domain.PlaceDetail, error)
}

type classifyUseCase interface {
	ClassifyWithStats(ctx context.Context, items []domain.ClassifyItem) (domain.CategoryMap, classifyuc.Stats)
}

type geocodeUseCase interface {
	Geocode(ctx context.Context, query string) ([]domain.GeocodeHit, error)
}

// Client is the nearbite SDK entry point. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	discoverySvc discoveryUseCase
	classifySvc  classifyUseCase
	geocodeSvc   geocodeUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New creates a Client. The context is only used to construct the generator.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		language:         defaultLanguage,
		callTimeout:      defaultCallTimeout,
		generatorTimeout: defaultGeneratorTimeout,
		pageTokenDelay:   discoveryuc.DefaultPageTokenDelay,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.placesAPIKey == "" {
		return nil, errors.New("nearbite: places api key required (use WithPlacesAPIKey)")
	}

	gen, err := createGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	placesClient := places.NewClient(&places.Config{
		APIKey:     cfg.placesAPIKey,
		BaseURL:    cfg.placesBaseURL,
		Language:   cfg.language,
		Timeout:    cfg.callTimeout,
		RateLimit:  cfg.rateLimit,
		HTTPClient: cfg.httpClient,
	})
	return wireClient(placesClient, gen, cfg, obs), nil
}

// createGenerator resolves the categorization backend: a caller-supplied
// generator, an SDK-built Gemini or OpenAI one, or nothing.
func createGenerator(ctx context.Context, cfg *clientConfig) (domain.TextGenerator, error) {
	if cfg.generator != nil {
		return &generatorAdapter{inner: cfg.generator}, nil
	}
	switch cfg.generatorProvider {
	case "":
		return noopGenerator{}, nil
	case generatorGemini:
		g, err := gemini.NewGenerator(ctx, &gemini.Config{
			APIKey:      cfg.generatorAPIKey,
			Model:       cfg.generatorModel,
			Temperature: cfg.temperature,
			Timeout:     cfg.generatorTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("nearbite: %w", err)
		}
		return g, nil
	case generatorOpenAI:
		if cfg.generatorAPIKey == "" {
			return nil, errors.New("nearbite: openai api key is required")
		}
		model := cfg.generatorModel
		if model == "" {
			model = defaultOpenAIModel
		}
		return openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:      cfg.generatorAPIKey,
			BaseURL:     cfg.generatorBaseURL,
			Model:       model,
			Temperature: cfg.temperature,
			Timeout:     cfg.generatorTimeout,
			Provider:    generatorOpenAI,
		}), nil
	default:
		return nil, fmt.Errorf("nearbite: unknown generator provider %q", cfg.generatorProvider)
	}
}

type placesAPI interface {
	discoveryuc.NearbySearcher
	discoveryuc.DetailsProvider
	geocodeuc.Geocoder
}

func wireClient(pc placesAPI, gen domain.TextGenerator, cfg *clientConfig, obs *observer) *Client {
	log := newUseCaseLogger(cfg.logger)

	searcher := discoveryuc.NewSearcher(pc, discoveryuc.SearchConfig{
		Types:          cfg.searchTypes,
		Keywords:       cfg.keywords,
		MaxPages:       cfg.maxPages,
		PageTokenDelay: cfg.pageTokenDelay,
		CallTimeout:    cfg.callTimeout,
	}, log)
	fetcher := discoveryuc.NewDetailFetcher(pc, cfg.callTimeout)
	aggregator := discoveryuc.NewDetailAggregator(fetcher, cfg.detailWorkers, log)

	healthSvc := healthuc.New()
	if hc, ok := gen.(domain.HealthChecker); ok {
		healthSvc = healthSvc.With("generator", hc)
	}

	return &Client{
		discoverySvc: discoveryuc.New(searcher, aggregator, fetcher, log),
		classifySvc:  classifyuc.New(gen, cfg.chunkSize, cfg.classifyWorkers, log),
		geocodeSvc:   geocodeuc.New(pc, log),
		healthSvc:    healthSvc,
		obs:          obs,
	}
}

// generatorAdapter wraps a public TextGenerator to satisfy domain.TextGenerator.
type generatorAdapter struct {
	inner TextGenerator
}

func (a *generatorAdapter) Generate(ctx context.Context, prompt string) (domain.GenerationResult, error) {
	r, err := a.inner.Generate(ctx, prompt)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generate: %w", err)
	}
	return domain.GenerationResult{
		Text:         r.Text,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// HealthCheck forwards to the wrapped generator when it can check itself.
func (a *generatorAdapter) HealthCheck(ctx context.Context) error {
	hc, ok := a.inner.(interface{ HealthCheck(context.Context) error })
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("generator health: %w", err)
	}
	return nil
}

// noopGenerator fails every call (used when no generator is configured).
// Categorize then returns an empty map, since every chunk fails.
type noopGenerator struct{}

func (noopGenerator) Generate(_ context.Context, _ string) (domain.GenerationResult, error) {
	return domain.GenerationResult{}, errors.New(
		"nearbite: generator not configured (use WithGemini, WithOpenAI or WithGenerator)",
	)
}
