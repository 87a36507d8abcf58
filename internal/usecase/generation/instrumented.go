package generation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearbite/internal/domain"
	logpkg "github.com/kailas-cloud/nearbite/internal/logger"
)

// Provider is a text generator that can also report its health.
type Provider interface {
	domain.TextGenerator
	domain.HealthChecker
}

// InstrumentedGenerator wraps a provider with request logging.
// Transport metrics (requests, duration, tokens) are recorded in the provider packages.
type InstrumentedGenerator struct {
	inner    Provider
	provider string
	model    string
	logger   *zap.Logger
}

// NewInstrumentedGenerator wraps a generator with observability.
func NewInstrumentedGenerator(inner Provider, provider, model string, logger *zap.Logger) *InstrumentedGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedGenerator{
		inner:    inner,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// Generate delegates to the inner generator and logs the outcome.
func (p *InstrumentedGenerator) Generate(ctx context.Context, prompt string) (domain.GenerationResult, error) {
	log := logpkg.FromContextOr(ctx, p.logger)
	start := time.Now()

	result, err := p.inner.Generate(ctx, prompt)

	duration := time.Since(start)

	if err != nil {
		log.Error("Generation request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.GenerationResult{}, fmt.Errorf("generate: %w", err)
	}

	log.Debug("Generation request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("output_chars", len(result.Text)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// HealthCheck delegates to the inner provider.
func (p *InstrumentedGenerator) HealthCheck(ctx context.Context) error {
	if err := p.inner.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%s health: %w", p.provider, err)
	}
	return nil
}
