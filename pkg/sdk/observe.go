package nearbite

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation statuses reported in metrics and logs.
const (
	statusOK      = "ok"
	statusPartial = "partial" // some upstream work was dropped, the rest returned
	statusError   = "error"
)

// outcome summarizes one SDK call.
type outcome struct {
	results int // records handed back to the caller
	dropped int // upstream units lost along the way, e.g. classification chunks
	err     error
}

func (o outcome) status() string {
	switch {
	case o.err != nil:
		return statusError
	case o.dropped > 0:
		return statusPartial
	default:
		return statusOK
	}
}

type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	results    *prometheus.HistogramVec
	dropped    *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nearbite",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK operations by type and status (ok, partial, error).",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nearbite",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"operation"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nearbite",
			Subsystem: "sdk",
			Name:      "operation_results",
			Help:      "Places or categories returned per SDK operation.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		}, []string{"operation"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nearbite",
			Subsystem: "sdk",
			Name:      "dropped_total",
			Help:      "Upstream units dropped by SDK operations.",
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.dropped); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one,
// so several clients can share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("nearbite: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("nearbite: register metric: %w", err)
	}
	return nil
}

// observer reports SDK calls to slog and prometheus. Both sinks are optional.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, start time.Time, out outcome) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := out.status()

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
		if out.err == nil {
			o.metrics.results.WithLabelValues(op).Observe(float64(out.results))
		}
		if out.dropped > 0 {
			o.metrics.dropped.WithLabelValues(op).Add(float64(out.dropped))
		}
	}

	if o.logger == nil {
		return
	}
	switch status {
	case statusError:
		o.logger.Warn("operation failed", "op", op, "duration", dur, "error", out.err)
	case statusPartial:
		o.logger.Warn("operation returned partial results",
			"op", op,
			"duration", dur,
			"results", out.results,
			"dropped", out.dropped,
		)
	default:
		o.logger.Debug("operation completed", "op", op, "duration", dur, "results", out.results)
	}
}
