package classify

import (
	"context"

	"github.com/kailas-cloud/nearbite/internal/domain"
)

// Generator turns a prompt into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.GenerationResult, error)
}
