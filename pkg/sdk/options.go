package nearbite

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	generatorGemini = "gemini"
	generatorOpenAI = "openai"
)

type clientConfig struct {
	placesAPIKey  string
	placesBaseURL string
	language      string
	rateLimit     float64
	callTimeout   time.Duration
	httpClient    *http.Client

	generator         TextGenerator
	generatorProvider string // "gemini" or "openai" when built by the SDK
	generatorAPIKey   string
	generatorBaseURL  string
	generatorModel    string
	temperature       float32
	generatorTimeout  time.Duration

	searchTypes     []string
	keywords        []string
	maxPages        int
	pageTokenDelay  time.Duration
	detailWorkers   int
	chunkSize       int
	classifyWorkers int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPlacesAPIKey sets the Google Maps web-service key. Required.
func WithPlacesAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.placesAPIKey = key
	})
}

// WithPlacesBaseURL overrides the Google Maps API root (proxies, tests).
func WithPlacesBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.placesBaseURL = baseURL
	})
}

// WithLanguage sets the result language. Default: zh-TW.
func WithLanguage(lang string) Option {
	return optionFunc(func(c *clientConfig) {
		c.language = lang
	})
}

// WithRateLimit caps outbound Places requests per second. Default: 50.
func WithRateLimit(rps float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.rateLimit = rps
	})
}

// WithCallTimeout bounds each Places call. Default: 10s.
func WithCallTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.callTimeout = d
	})
}

// WithHTTPClient sets the HTTP client used for Places calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithGenerator sets a custom text generator for categorization.
// Takes precedence over WithGemini and WithOpenAI.
func WithGenerator(g TextGenerator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithGemini categorizes with a Gemini model. Empty model means gemini-2.0-flash.
func WithGemini(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.generatorProvider = generatorGemini
		c.generatorAPIKey = apiKey
		c.generatorModel = model
	})
}

// WithOpenAI categorizes with an OpenAI-compatible chat model.
// Empty baseURL means the public OpenAI endpoint.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.generatorProvider = generatorOpenAI
		c.generatorAPIKey = apiKey
		c.generatorBaseURL = baseURL
		c.generatorModel = model
	})
}

// WithTemperature sets the sampling temperature of SDK-built generators.
func WithTemperature(t float32) Option {
	return optionFunc(func(c *clientConfig) {
		c.temperature = t
	})
}

// WithGeneratorTimeout bounds each generator call. Default: 60s.
func WithGeneratorTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.generatorTimeout = d
	})
}

// WithSearch replaces the broad place types and keywords queried around a point.
// A nil slice keeps the default.
func WithSearch(types, keywords []string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchTypes = types
		c.keywords = keywords
	})
}

// WithPagination sets how many result pages one query follows and the
// wait before each continuation page. Defaults: 3 pages, 2s.
// Non-positive values keep the defaults.
func WithPagination(maxPages int, tokenDelay time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPages = maxPages
		c.pageTokenDelay = tokenDelay
	})
}

// WithDetailWorkers sets the detail fetch pool width. Default: 15.
func WithDetailWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.detailWorkers = n
	})
}

// WithClassification sets the chunk size and pool width of categorization.
// Defaults: 30 records per chunk, 10 concurrent chunks.
func WithClassification(chunkSize, workers int) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunkSize = chunkSize
		c.classifyWorkers = workers
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
