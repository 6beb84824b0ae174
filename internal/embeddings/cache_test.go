package embeddings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/pders01/omnivault/internal/kv"
	"github.com/pders01/omnivault/internal/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	mu    sync.Mutex
	calls int
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if strings.Contains(text, "fail") {
		return nil, errors.New("model overloaded")
	}
	return []float64{float64(len(text)), 1}, nil
}

func newCache(t *testing.T) (*Cache, *countingEmbedder, kv.Store) {
	t.Helper()
	store, err := kv.NewFileStoreFs(afero.NewMemMapFs(), "/vault")
	require.NoError(t, err)
	e := &countingEmbedder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCache(store, e, logger, 2), e, store
}

func TestCacheReusesFreshEmbeddings(t *testing.T) {
	c, e, _ := newCache(t)
	notes := []models.Note{
		{ID: "1", Title: "One", UpdatedAt: 1},
		{ID: "2", Title: "Two", UpdatedAt: 1},
	}

	vecs := c.Vectors(context.Background(), notes)
	assert.Len(t, vecs, 2)
	assert.Equal(t, 2, e.calls)

	vecs = c.Vectors(context.Background(), notes)
	assert.Len(t, vecs, 2)
	assert.Equal(t, 2, e.calls, "fresh cache entries must not be re-embedded")

	notes[0].UpdatedAt = 2
	c.Vectors(context.Background(), notes)
	assert.Equal(t, 3, e.calls, "edited notes must be re-embedded")
}

func TestCacheSkipsFailures(t *testing.T) {
	c, _, _ := newCache(t)
	notes := []models.Note{
		{ID: "ok", Title: "fine"},
		{ID: "bad", Title: "fail"},
	}

	vecs := c.Vectors(context.Background(), notes)
	assert.Contains(t, vecs, "ok")
	assert.NotContains(t, vecs, "bad")
}

func TestCachePrune(t *testing.T) {
	c, _, store := newCache(t)
	c.Vectors(context.Background(), []models.Note{{ID: "a", Title: "a"}, {ID: "b", Title: "b"}})

	removed, err := c.Prune([]models.Note{{ID: "a"}})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	keys, err := store.Keys(KeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{Key("a")}, keys)
}
