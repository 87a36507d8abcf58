package nearbite

import (
	"context"
	"errors"
	"time"

	"github.com/kailas-cloud/nearbite/internal/domain"
	classifyuc "github.com/kailas-cloud/nearbite/internal/usecase/classify"
)

// errAllChunksFailed is only reported to the observer; Categorize itself returns an empty map.
var errAllChunksFailed = errors.New("every classification chunk failed")

// Categorize groups places into food-type labels such as "牛肉麵🍜".
// Chunks the model fails on are left out, so the result may be partial or empty.
// A place may appear under more than one label.
func (c *Client) Categorize(ctx context.Context, places []PlaceDetail) map[string][]PlaceDetail {
	return CategorizeBy(ctx, c, places, func(p PlaceDetail) (string, []string) {
		return p.Name, p.Types
	})
}

// CategorizeBy groups arbitrary records by food type. key returns the
// record's display name and place types; records with an empty name are
// ignored and the first record per name wins.
func CategorizeBy[T any](
	ctx context.Context, c *Client, records []T, key func(T) (name string, types []string),
) map[string][]T {
	start := time.Now()

	universe := make(map[string]T, len(records))
	items := make([]domain.ClassifyItem, 0, len(records))
	for _, r := range records {
		name, types := key(r)
		if name == "" {
			continue
		}
		if _, dup := universe[name]; dup {
			continue
		}
		universe[name] = r
		if types == nil {
			types = []string{}
		}
		items = append(items, domain.ClassifyItem{Name: name, Types: types})
	}

	cats, stats := c.classifySvc.ClassifyWithStats(ctx, items)
	out := classifyuc.Reconcile(cats, universe)

	res := outcome{results: len(out), dropped: stats.FailedChunks}
	if stats.Chunks > 0 && stats.FailedChunks == stats.Chunks {
		res.err = errAllChunksFailed
	}
	c.obs.observe("categorize", start, res)
	return out
}
