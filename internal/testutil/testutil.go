// Package testutil provides fakes and fixtures shared by the vault's tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/kv"
	"github.com/pders01/omnivault/internal/models"
	"github.com/pders01/omnivault/internal/persist"
	"github.com/pders01/omnivault/internal/vault"
	"github.com/spf13/afero"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FakeAI is a scriptable ai.Capability and ai.Embedder. Zero values give
// empty, successful answers; set Err to fail every call.
type FakeAI struct {
	mu sync.Mutex

	Draft    ai.ImportDraft
	Reply    []string
	Result   models.GroundedResult
	Lookup   ai.Lookup
	ImageURL string
	PCM      []byte
	Err      error

	// Vectors maps a substring of the embedded text to its vector.
	Vectors map[string][]float64

	Calls []string
	Last  ai.ChatRequest
}

var _ ai.Capability = (*FakeAI)(nil)
var _ ai.Embedder = (*FakeAI)(nil)

func (f *FakeAI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

// CallCount returns how many times op was called.
func (f *FakeAI) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *FakeAI) SummarizeImport(ctx context.Context, raw string) (ai.ImportDraft, error) {
	f.record("summarize")
	return f.Draft, f.Err
}

func (f *FakeAI) Chat(ctx context.Context, req ai.ChatRequest, onChunk func(string)) (string, error) {
	f.record("chat")
	f.mu.Lock()
	f.Last = req
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	for _, c := range f.Reply {
		if onChunk != nil {
			onChunk(c)
		}
	}
	return strings.Join(f.Reply, ""), nil
}

func (f *FakeAI) Research(ctx context.Context, query, vaultContext string) (models.GroundedResult, error) {
	f.record("research")
	return f.Result, f.Err
}

func (f *FakeAI) SmartLookup(ctx context.Context, query string, notes []models.Note) (ai.Lookup, error) {
	f.record("lookup")
	return f.Lookup, f.Err
}

func (f *FakeAI) GenerateVisual(ctx context.Context, title, content string) (string, error) {
	f.record("visual")
	return f.ImageURL, f.Err
}

func (f *FakeAI) SynthesizeBriefing(ctx context.Context, notes []models.Note) ([]byte, error) {
	f.record("briefing")
	return f.PCM, f.Err
}

func (f *FakeAI) Embed(ctx context.Context, text string) ([]float64, error) {
	f.record("embed")
	if f.Err != nil {
		return nil, f.Err
	}
	for needle, vec := range f.Vectors {
		if strings.Contains(text, needle) {
			return vec, nil
		}
	}
	return []float64{0, 0, 0, 1}, nil
}

// Vault is a fully wired in-memory vault.
type Vault struct {
	KV      kv.Store
	Adapter *persist.Adapter
	Store   *vault.Store
	Manager *vault.Manager
}

// NewVault wires an in-memory kv store, adapter, store and manager, loaded
// with notes. Extra manager options are applied after the logger.
func NewVault(t *testing.T, notes []models.Note, opts ...vault.ManagerOption) *Vault {
	t.Helper()
	store, err := kv.NewFileStoreFs(afero.NewMemMapFs(), "/vault")
	if err != nil {
		t.Fatalf("failed to create kv store: %v", err)
	}
	logger := DiscardLogger()
	adapter := persist.New(store, persist.WithLogger(logger))

	s := vault.NewStore(adapter, logger)
	s.ReplaceAll(notes)
	m := vault.NewManager(s, append([]vault.ManagerOption{vault.WithLogger(logger)}, opts...)...)

	t.Cleanup(func() {
		m.Shutdown()
		s.Close()
	})
	return &Vault{KV: store, Adapter: adapter, Store: s, Manager: m}
}
