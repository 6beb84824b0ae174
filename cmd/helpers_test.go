package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/config"
	"github.com/pders01/omnivault/internal/kv"
	"github.com/pders01/omnivault/internal/models"
	"github.com/pders01/omnivault/internal/persist"
	"github.com/pders01/omnivault/internal/testutil"
	"github.com/spf13/viper"
)

// setupVault points the configuration at a fresh vault directory and swaps
// the AI backend for fake. A nil fake makes the backend unavailable.
func setupVault(t *testing.T, fake *testutil.FakeAI) string {
	t.Helper()

	viper.Reset()
	config.SetDefaults(viper.GetViper())
	dir := t.TempDir()
	viper.Set("storage.path", dir)
	viper.Set("enrichment.enabled", false)
	viper.Set("logging.level", "error")

	oldCapability, oldEmbedder := newCapability, newEmbedder
	newCapability = func(ctx context.Context) (ai.Capability, error) {
		if fake == nil {
			return nil, errors.New("no backend in tests")
		}
		return fake, nil
	}
	newEmbedder = func(ctx context.Context) (ai.Embedder, error) {
		return nil, nil
	}

	t.Cleanup(func() {
		newCapability, newEmbedder = oldCapability, oldEmbedder
		viper.Reset()
	})
	return dir
}

func openAdapter(t *testing.T) (*persist.Adapter, func()) {
	t.Helper()
	store, err := kv.Open(kv.BackendFile, config.GetStoragePath())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return persist.New(store, persist.WithLogger(testutil.DiscardLogger())), func() { store.Close() }
}

// storedNotes reads the notes persisted in the test vault.
func storedNotes(t *testing.T) []models.Note {
	t.Helper()
	adapter, done := openAdapter(t)
	defer done()
	return adapter.LoadNotes()
}

// writeNotes replaces the persisted notes of the test vault.
func writeNotes(t *testing.T, notes []models.Note) {
	t.Helper()
	adapter, done := openAdapter(t)
	defer done()
	if err := adapter.SaveNotes(notes); err != nil {
		t.Fatalf("failed to save notes: %v", err)
	}
}

func findNote(notes []models.Note, id string) (models.Note, bool) {
	for _, n := range notes {
		if n.ID == id {
			return n, true
		}
	}
	return models.Note{}, false
}
