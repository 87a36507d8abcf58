package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/nearbite/internal/domain"
	"github.com/kailas-cloud/nearbite/internal/metrics"
)

const provider = "gemini"

// Generator is a text generation provider backed by the Gemini API.
type Generator struct {
	models      modelsAPI
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// modelsAPI is the subset of genai.Models used here.
type modelsAPI interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// Config holds the Gemini settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
	// HTTPClient overrides the SDK default transport.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewGenerator creates a Gemini-backed text generator.
func NewGenerator(ctx context.Context, cfg *Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newGenerator(client.Models, cfg), nil
}

func newGenerator(models modelsAPI, cfg *Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Generator{
		models:      models,
		model:       model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// Generate implements domain.TextGenerator.
func (g *Generator) Generate(ctx context.Context, prompt string) (domain.GenerationResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	duration := time.Since(start)

	if err != nil {
		metrics.GeneratorRequestsTotal.WithLabelValues(provider, g.model, "error").Inc()
		return domain.GenerationResult{}, wrapAPIError(err)
	}

	text := resp.Text()
	if text == "" {
		metrics.GeneratorRequestsTotal.WithLabelValues(provider, g.model, "error").Inc()
		return domain.GenerationResult{}, fmt.Errorf("gemini: empty response: %w", domain.ErrGeneratorError)
	}

	metrics.GeneratorRequestsTotal.WithLabelValues(provider, g.model, "success").Inc()
	metrics.GeneratorRequestDuration.WithLabelValues(provider, g.model).Observe(duration.Seconds())

	var promptTokens, totalTokens int
	if resp.UsageMetadata != nil {
		promptTokens = int(resp.UsageMetadata.PromptTokenCount)
		totalTokens = int(resp.UsageMetadata.TotalTokenCount)
		metrics.GeneratorTokensTotal.WithLabelValues(provider, g.model, "prompt").Add(float64(promptTokens))
		metrics.GeneratorTokensTotal.WithLabelValues(provider, g.model, "total").Add(float64(totalTokens))
	}

	g.logger.Debug("gemini generation finished",
		zap.String("model", g.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", totalTokens),
	)

	return domain.GenerationResult{
		Text:         text,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck verifies that the configured model is reachable.
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.models.Get(ctx, g.model, nil); err != nil {
		return fmt.Errorf("get model %s: %w", g.model, err)
	}
	return nil
}

func wrapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return fmt.Errorf("gemini API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrRateLimited)
		}
		return fmt.Errorf("gemini API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrGeneratorError)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("gemini request timed out: %w: %w", err, domain.ErrGeneratorError)
	}
	return fmt.Errorf("gemini request failed: %w: %w", err, domain.ErrGeneratorError)
}
