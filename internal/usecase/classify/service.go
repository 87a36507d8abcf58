package classify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/nearbite/internal/domain"
	logpkg "github.com/kailas-cloud/nearbite/internal/logger"
	"github.com/kailas-cloud/nearbite/internal/metrics"
)

const (
	// DefaultChunkSize is the number of venues sent per generator call.
	DefaultChunkSize = 30
	// DefaultWorkers bounds concurrent generator calls per classification.
	DefaultWorkers = 10
)

// Chunk outcomes recorded in metrics.
const (
	outcomeOK         = "ok"
	outcomeCallFailed = "call_failed"
	outcomeMalformed  = "malformed"
)

// Service classifies venues into food-type categories by chunking them
// through a text generator.
type Service struct {
	gen       Generator
	chunkSize int
	workers   int
	logger    *zap.Logger
}

// New creates a classification service. Non-positive sizes use the defaults.
func New(gen Generator, chunkSize, workers int, logger *zap.Logger) *Service {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, chunkSize: chunkSize, workers: workers, logger: logger}
}

// Stats describes one classification run.
type Stats struct {
	Chunks       int
	FailedChunks int
}

// Classify returns the merged categories of every chunk that succeeded.
// A chunk whose call fails or whose output cannot be parsed contributes nothing.
// Chunk results merge in completion order, so list order within a label is not stable.
func (s *Service) Classify(ctx context.Context, items []domain.ClassifyItem) domain.CategoryMap {
	merged, _ := s.ClassifyWithStats(ctx, items)
	return merged
}

// ClassifyWithStats is Classify that also reports how many chunks were dropped.
func (s *Service) ClassifyWithStats(ctx context.Context, items []domain.ClassifyItem) (domain.CategoryMap, Stats) {
	log := logpkg.FromContextOr(ctx, s.logger)
	merged := make(domain.CategoryMap)
	chunks := Chunk(items, s.chunkSize)
	if len(chunks) == 0 {
		return merged, Stats{}
	}

	var (
		mu     sync.Mutex
		failed int
	)
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			cats, err := s.classifyChunk(ctx, chunk)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				log.Warn("Classification chunk dropped",
					zap.Int("chunk", i),
					zap.Int("chunk_size", len(chunk)),
					zap.Error(err),
				)
				return nil
			}
			merged.Merge(cats)
			return nil
		})
	}
	_ = g.Wait()

	log.Info("Classification completed",
		zap.Int("items", len(items)),
		zap.Int("chunks", len(chunks)),
		zap.Int("failed_chunks", failed),
		zap.Int("categories", len(merged)),
		zap.Duration("duration", time.Since(start)),
	)
	return merged, Stats{Chunks: len(chunks), FailedChunks: failed}
}

func (s *Service) classifyChunk(ctx context.Context, chunk []domain.ClassifyItem) (domain.CategoryMap, error) {
	prompt, err := BuildPrompt(chunk)
	if err != nil {
		metrics.ClassificationChunksTotal.WithLabelValues(outcomeCallFailed).Inc()
		return nil, err
	}

	res, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		metrics.ClassificationChunksTotal.WithLabelValues(outcomeCallFailed).Inc()
		return nil, fmt.Errorf("generate: %w", err)
	}

	cats, err := ParseCategories(res.Text)
	if err != nil {
		metrics.ClassificationChunksTotal.WithLabelValues(outcomeMalformed).Inc()
		return nil, err
	}

	metrics.ClassificationChunksTotal.WithLabelValues(outcomeOK).Inc()
	return cats, nil
}

