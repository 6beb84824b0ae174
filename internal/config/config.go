package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// SetDefaults registers the default value of every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", defaultStoragePath())
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("gemini.text_model", "gemini-2.5-flash")
	v.SetDefault("gemini.chat_model", "gemini-2.5-pro")
	v.SetDefault("gemini.image_model", "gemini-2.5-flash-image")
	v.SetDefault("gemini.speech_model", "gemini-2.5-flash-preview-tts")
	v.SetDefault("gemini.voice", "Kore")
	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("ollama.chat_model", "llama3.2")
	v.SetDefault("embeddings.enabled", true)
	v.SetDefault("embeddings.model", "nomic-embed-text")
	v.SetDefault("embeddings.ollama_url", "http://localhost:11434")
	v.SetDefault("enrichment.enabled", true)
	v.SetDefault("enrichment.timeout", "60s")
	v.SetDefault("search.limit", 5)
	v.SetDefault("retention.days", 90)
	v.SetDefault("retention.preserve_tags", []string{"important"})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".omnivault"
	}
	return filepath.Join(home, ".local", "share", "omnivault")
}

// ConfigDir returns the directory holding config.toml
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "omnivault"), nil
}

// GetStorageBackend returns the kv backend name
func GetStorageBackend() string {
	return viper.GetString("storage.backend")
}

// GetStoragePath returns the directory the vault is stored in
func GetStoragePath() string {
	return viper.GetString("storage.path")
}

// GetAIProvider returns the configured AI provider (gemini or ollama)
func GetAIProvider() string {
	return viper.GetString("ai.provider")
}

// GetGeminiAPIKey returns the Gemini API key, falling back to the
// GEMINI_API_KEY and API_KEY environment variables
func GetGeminiAPIKey() string {
	if key := viper.GetString("gemini.api_key"); key != "" {
		return key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("API_KEY")
}

// GetGeminiTextModel returns the model used for import, research and lookup
func GetGeminiTextModel() string {
	return viper.GetString("gemini.text_model")
}

// GetGeminiChatModel returns the model used by the chat copilot
func GetGeminiChatModel() string {
	return viper.GetString("gemini.chat_model")
}

// GetGeminiImageModel returns the model used for note illustrations
func GetGeminiImageModel() string {
	return viper.GetString("gemini.image_model")
}

// GetGeminiSpeechModel returns the model used for audio briefings
func GetGeminiSpeechModel() string {
	return viper.GetString("gemini.speech_model")
}

// GetGeminiVoice returns the prebuilt voice used for audio briefings
func GetGeminiVoice() string {
	return viper.GetString("gemini.voice")
}

// GetOllamaChatURL returns the Ollama endpoint used for text generation
func GetOllamaChatURL() string {
	return viper.GetString("ollama.url")
}

// GetOllamaChatModel returns the Ollama model used for text generation
func GetOllamaChatModel() string {
	return viper.GetString("ollama.chat_model")
}

// GetEmbeddingsEnabled returns whether semantic search is enabled
func GetEmbeddingsEnabled() bool {
	return viper.GetBool("embeddings.enabled")
}

// GetEmbeddingModel returns the Ollama embedding model
func GetEmbeddingModel() string {
	return viper.GetString("embeddings.model")
}

// GetOllamaURL returns the Ollama endpoint used for embeddings
func GetOllamaURL() string {
	return viper.GetString("embeddings.ollama_url")
}

// GetEnrichmentEnabled returns whether new notes get generated images
func GetEnrichmentEnabled() bool {
	return viper.GetBool("enrichment.enabled")
}

// GetEnrichmentTimeout returns how long one image generation may take
func GetEnrichmentTimeout() time.Duration {
	d := viper.GetDuration("enrichment.timeout")
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}

// GetSearchLimit returns the maximum number of semantic search results
func GetSearchLimit() int {
	return viper.GetInt("search.limit")
}

// GetRetentionDays returns the retention period in days
func GetRetentionDays() int {
	return viper.GetInt("retention.days")
}

// GetPreserveTags returns tags that should be preserved indefinitely
func GetPreserveTags() []string {
	return viper.GetStringSlice("retention.preserve_tags")
}

// ShouldPreserve checks if a note with given tags is exempt from pruning
func ShouldPreserve(tags []string) bool {
	preserveTags := GetPreserveTags()
	for _, tag := range tags {
		for _, preserveTag := range preserveTags {
			if tag == preserveTag {
				return true
			}
		}
	}
	return false
}
