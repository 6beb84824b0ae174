package embeddings

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/kv"
	"github.com/pders01/omnivault/internal/models"
	"github.com/sourcegraph/conc/pool"
)

const defaultWorkers = 4

// Cache stores note embeddings in a kv.Store, keyed by note id and stamped
// with the note's updatedAt so edits invalidate them.
type Cache struct {
	store    kv.Store
	embedder ai.Embedder
	logger   *slog.Logger
	workers  int
}

// NewCache creates a Cache. workers bounds concurrent embedding requests.
func NewCache(store kv.Store, embedder ai.Embedder, logger *slog.Logger, workers int) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Cache{store: store, embedder: embedder, logger: logger, workers: workers}
}

// NoteText is the text embedded for a note.
func NoteText(n models.Note) string {
	parts := []string{n.Title, n.Content}
	if len(n.Tags) > 0 {
		parts = append(parts, strings.Join(n.Tags, " "))
	}
	return strings.Join(parts, "\n")
}

type cached struct {
	id  string
	vec []float64
}

// Vectors returns an embedding for every note it could embed. Notes whose
// embedding fails are skipped with a warning.
func (c *Cache) Vectors(ctx context.Context, notes []models.Note) map[string][]float64 {
	out := make(map[string][]float64, len(notes))

	var stale []models.Note
	for _, n := range notes {
		if vec, ok := c.lookup(n); ok {
			out[n.ID] = vec
			continue
		}
		stale = append(stale, n)
	}

	p := pool.NewWithResults[cached]().WithMaxGoroutines(c.workers)
	for _, n := range stale {
		p.Go(func() cached {
			vec, err := c.embed(ctx, n)
			if err != nil {
				c.logger.Warn("failed to embed note", "id", n.ID, "error", err)
				return cached{id: n.ID}
			}
			return cached{id: n.ID, vec: vec}
		})
	}
	for _, r := range p.Wait() {
		if r.vec != nil {
			out[r.id] = r.vec
		}
	}
	return out
}

// Query embeds a free-text query.
func (c *Cache) Query(ctx context.Context, text string) ([]float64, error) {
	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return vec, ValidateEmbedding(vec)
}

func (c *Cache) lookup(n models.Note) ([]float64, bool) {
	data, ok, err := c.store.Get(Key(n.ID))
	if err != nil || !ok {
		return nil, false
	}
	stamp, vec, err := Decode(data)
	if err != nil || stamp != n.UpdatedAt {
		return nil, false
	}
	return vec, true
}

func (c *Cache) embed(ctx context.Context, n models.Note) ([]float64, error) {
	vec, err := c.embedder.Embed(ctx, NoteText(n))
	if err != nil {
		return nil, err
	}
	if err := ValidateEmbedding(vec); err != nil {
		return nil, err
	}
	data, err := Encode(n.UpdatedAt, vec)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(Key(n.ID), data); err != nil {
		c.logger.Warn("failed to cache embedding", "id", n.ID, "error", err)
	}
	return vec, nil
}

// Prune drops cached embeddings of notes that no longer exist.
func (c *Cache) Prune(notes []models.Note) (int, error) {
	keep := make(map[string]bool, len(notes))
	for _, n := range notes {
		keep[Key(n.ID)] = true
	}
	keys, err := c.store.Keys(KeyPrefix)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, k := range keys {
		if keep[k] {
			continue
		}
		if err := c.store.Delete(k); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
