package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/embeddings"
	"github.com/pders01/omnivault/internal/models"
	"github.com/pders01/omnivault/internal/vault"
)

const (
	// AIRelevance is the relevance given to notes picked by the AI searcher.
	AIRelevance = 0.95
	// SearchFailedSummary is reported when a lookup fails.
	SearchFailedSummary = "Search failed."

	defaultLookupLimit = 5
)

// LookupMode tells how a lookup was answered.
type LookupMode string

const (
	ModeSemantic LookupMode = "semantic"
	ModeAI       LookupMode = "ai"
)

// LookupResult is the answer of a smart lookup. Notes carry a RelevanceScore.
type LookupResult struct {
	Summary string        `json:"summary"`
	Notes   []models.Note `json:"notes"`
	Mode    LookupMode    `json:"mode"`
}

// Lookup finds the notes relevant to a free-text query, by embedding
// similarity when an embedding cache is configured and by asking the AI
// searcher otherwise.
type Lookup struct {
	store    *vault.Store
	searcher ai.Searcher
	cache    *embeddings.Cache
	limit    int
	logger   *slog.Logger
}

// NewLookup creates a Lookup. searcher or cache may be nil, not both.
func NewLookup(store *vault.Store, searcher ai.Searcher, cache *embeddings.Cache, limit int, logger *slog.Logger) *Lookup {
	if limit <= 0 {
		limit = defaultLookupLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Lookup{store: store, searcher: searcher, cache: cache, limit: limit, logger: logger}
}

// Search answers query. On failure the result carries SearchFailedSummary
// and no notes, alongside the error.
func (l *Lookup) Search(ctx context.Context, query string) (LookupResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return LookupResult{Notes: []models.Note{}}, ErrEmptyInput
	}
	notes := l.store.All()

	if l.cache != nil {
		res, err := l.semantic(ctx, query, notes)
		if err == nil {
			return res, nil
		}
		if l.searcher == nil {
			return failed(ModeSemantic), err
		}
		l.logger.Warn("semantic lookup failed, asking AI searcher", "error", err)
	}
	if l.searcher == nil {
		return failed(ModeAI), fmt.Errorf("no searcher configured")
	}
	return l.ask(ctx, query, notes)
}

func failed(mode LookupMode) LookupResult {
	return LookupResult{Summary: SearchFailedSummary, Notes: []models.Note{}, Mode: mode}
}

func (l *Lookup) semantic(ctx context.Context, query string, notes []models.Note) (LookupResult, error) {
	qvec, err := l.cache.Query(ctx, query)
	if err != nil {
		return LookupResult{}, fmt.Errorf("failed to embed query: %w", err)
	}

	vecs := l.cache.Vectors(ctx, notes)
	byID := make(map[string]models.Note, len(notes))
	idx := embeddings.NewIndex()
	for _, n := range notes {
		vec, ok := vecs[n.ID]
		if !ok {
			continue
		}
		if err := idx.Add(n.ID, vec); err != nil {
			l.logger.Warn("skipping note embedding", "id", n.ID, "error", err)
			continue
		}
		byID[n.ID] = n
	}
	if _, err := l.cache.Prune(notes); err != nil {
		l.logger.Debug("failed to prune embedding cache", "error", err)
	}

	hits, err := idx.Search(qvec, l.limit)
	if err != nil {
		return LookupResult{}, err
	}

	out := make([]models.Note, 0, len(hits))
	for _, h := range hits {
		if h.Score <= 0 {
			continue
		}
		out = append(out, byID[h.ID].WithRelevance(h.Score))
	}
	return LookupResult{
		Summary: fmt.Sprintf("Found %d semantically related note(s) for %q.", len(out), query),
		Notes:   out,
		Mode:    ModeSemantic,
	}, nil
}

func (l *Lookup) ask(ctx context.Context, query string, notes []models.Note) (LookupResult, error) {
	answer, err := l.searcher.SmartLookup(ctx, query, notes)
	if err != nil {
		return failed(ModeAI), fmt.Errorf("failed to run smart lookup: %w", err)
	}

	relevant := make(map[string]bool, len(answer.RelevantIDs))
	for _, id := range answer.RelevantIDs {
		relevant[id] = true
	}
	out := []models.Note{}
	for _, n := range notes {
		if relevant[n.ID] {
			out = append(out, n.WithRelevance(AIRelevance))
		}
	}
	return LookupResult{Summary: answer.Summary, Notes: out, Mode: ModeAI}, nil
}
