package nearbite

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/nearbite/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the configured generator, when it supports health checks.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	var failed int
	for _, v := range report.Checks {
		if v != healthuc.CheckOK {
			failed++
		}
	}
	c.obs.observe("health", start, outcome{results: len(checks), dropped: failed})
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
