package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream provider and pipeline Prometheus metrics.
var (
	PlacesRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearbite",
			Name:      "places_requests_total",
			Help:      "Total number of places provider requests",
		},
		[]string{"endpoint", "status"},
	)

	PlacesRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nearbite",
			Name:      "places_request_duration_seconds",
			Help:      "Places provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	GeneratorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearbite",
			Name:      "generator_requests_total",
			Help:      "Total number of text generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	GeneratorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nearbite",
			Name:      "generator_request_duration_seconds",
			Help:      "Text generation request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"provider", "model"},
	)

	GeneratorTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearbite",
			Name:      "generator_tokens_total",
			Help:      "Total text generation tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	ClassificationChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearbite",
			Name:      "classification_chunks_total",
			Help:      "Classification chunks by outcome",
		},
		[]string{"outcome"}, // "ok" / "call_failed" / "malformed"
	)

	DetailFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearbite",
			Name:      "detail_fetches_total",
			Help:      "Place detail fetches by outcome",
		},
		[]string{"outcome"}, // "ok" / "skipped"
	)
)

var providerMetricsRegistered bool

// RegisterProviderMetrics registers upstream and pipeline metrics. Must be called once from main.
func RegisterProviderMetrics() {
	if providerMetricsRegistered {
		return
	}
	prometheus.MustRegister(PlacesRequestsTotal)
	prometheus.MustRegister(PlacesRequestDuration)
	prometheus.MustRegister(GeneratorRequestsTotal)
	prometheus.MustRegister(GeneratorRequestDuration)
	prometheus.MustRegister(GeneratorTokensTotal)
	prometheus.MustRegister(ClassificationChunksTotal)
	prometheus.MustRegister(DetailFetchesTotal)
	providerMetricsRegistered = true
}
