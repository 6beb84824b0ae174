package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/config"
	"github.com/pders01/omnivault/internal/embeddings"
	"github.com/pders01/omnivault/internal/gemini"
	"github.com/pders01/omnivault/internal/kv"
	"github.com/pders01/omnivault/internal/logutil"
	"github.com/pders01/omnivault/internal/ollama"
	"github.com/pders01/omnivault/internal/persist"
	"github.com/pders01/omnivault/internal/vault"
	"github.com/spf13/cobra"
)

// newCapability builds the configured AI backend. Tests replace it.
var newCapability = func(ctx context.Context) (ai.Capability, error) {
	switch strings.ToLower(config.GetAIProvider()) {
	case "gemini":
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      config.GetGeminiAPIKey(),
			TextModel:   config.GetGeminiTextModel(),
			ChatModel:   config.GetGeminiChatModel(),
			ImageModel:  config.GetGeminiImageModel(),
			SpeechModel: config.GetGeminiSpeechModel(),
			Voice:       config.GetGeminiVoice(),
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "ollama":
		client, err := ollama.NewClient(config.GetOllamaChatURL(), config.GetEmbeddingModel(),
			ollama.WithChatModel(config.GetOllamaChatModel()))
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown ai.provider: %s (must be: gemini, ollama)", config.GetAIProvider())
	}
}

// newEmbedder returns the embedding backend, or nil when semantic search is
// disabled or Ollama is not reachable. Tests replace it.
var newEmbedder = func(ctx context.Context) (ai.Embedder, error) {
	if !config.GetEmbeddingsEnabled() || !ollama.IsAvailable(config.GetOllamaURL()) {
		return nil, nil
	}
	client, err := ollama.NewClient(config.GetOllamaURL(), config.GetEmbeddingModel())
	if err != nil {
		return nil, err
	}
	if err := client.CheckModel(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// app is an opened vault plus its collaborators.
type app struct {
	logger  *slog.Logger
	kv      kv.Store
	adapter *persist.Adapter
	store   *vault.Store
	manager *vault.Manager

	ai    ai.Capability
	aiErr error
}

type openOptions struct {
	noEnrich bool
}

func newLogger() *slog.Logger {
	logger, err := logutil.LoggerFromViper()
	if err != nil {
		fallback := slog.Default()
		fallback.Warn("invalid logging config, using defaults", "error", err)
		return fallback
	}
	return logger
}

// openVault opens the configured store and loads the vault. The AI backend
// is optional here; commands that need it call requireAI.
func openVault(ctx context.Context, opts openOptions) (*app, error) {
	logger := newLogger()

	store, err := kv.Open(kv.Backend(config.GetStorageBackend()), config.GetStoragePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open vault storage: %w", err)
	}

	a := &app{logger: logger, kv: store}
	a.adapter = persist.New(store, persist.WithLogger(logger))
	a.store = vault.NewStore(a.adapter, logger)
	a.store.Load()

	a.ai, a.aiErr = newCapability(ctx)
	if a.aiErr != nil {
		logger.Debug("ai backend unavailable", "error", a.aiErr)
	} else if oc, ok := a.ai.(*ollama.Client); ok {
		logger.Debug("using ollama", "chat_model", oc.GetChatModel(), "embedding_model", oc.GetModel())
	}

	managerOpts := []vault.ManagerOption{
		vault.WithLogger(logger),
		vault.WithEnrichmentTimeout(config.GetEnrichmentTimeout()),
	}
	if a.ai != nil && config.GetEnrichmentEnabled() && !opts.noEnrich {
		managerOpts = append(managerOpts, vault.WithIllustrator(a.ai))
	}
	a.manager = vault.NewManager(a.store, managerOpts...)
	return a, nil
}

// Close waits for background enrichment, flushes the store and closes storage.
func (a *app) Close() {
	a.manager.Wait()
	a.store.Close()
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("failed to close vault storage", "error", err)
	}
}

func (a *app) requireAI() (ai.Capability, error) {
	if a.ai == nil {
		err := a.aiErr
		if err == nil {
			err = errors.New("no ai backend configured")
		}
		return nil, fmt.Errorf("ai backend unavailable: %w", err)
	}
	return a.ai, nil
}

// embeddingCache returns the semantic search cache, or nil when no embedder
// is available.
func (a *app) embeddingCache(ctx context.Context) *embeddings.Cache {
	embedder, err := newEmbedder(ctx)
	if err != nil {
		a.logger.Warn("semantic search unavailable", "error", err)
		return nil
	}
	if embedder == nil {
		return nil
	}
	if oc, ok := embedder.(*ollama.Client); ok {
		a.logger.Debug("semantic search enabled", "model", oc.GetModel())
	}
	return embeddings.NewCache(a.kv, embedder, a.logger, 0)
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// printStructured writes v as JSON or toon when requested and reports
// whether it did.
func printStructured(v any, asJSON, asToon bool) (bool, error) {
	if asJSON {
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return true, nil
	}

	if asToon {
		output, err := gotoon.Encode(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return true, nil
	}
	return false, nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
