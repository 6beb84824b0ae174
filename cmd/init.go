package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/omnivault/internal/config"
	"github.com/pders01/omnivault/internal/kv"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the vault and a default config file",
	Long: `Create the storage directory and a default config file.

This command:
  - Creates a default config file if it doesn't exist
  - Creates the vault storage for the configured backend

Run this once before using omnivault.`,
	RunE: runInit,
}

const defaultConfig = `[storage]
backend = "file"   # file | bolt | sqlite

[ai]
provider = "gemini"   # gemini | ollama

[gemini]
# api_key = ""   # or set GEMINI_API_KEY

[ollama]
url = "http://localhost:11434"
chat_model = "llama3.2"

[embeddings]
enabled = true
model = "nomic-embed-text"
ollama_url = "http://localhost:11434"

[enrichment]
enabled = true
timeout = "60s"

[retention]
days = 90
preserve_tags = ["important"]

[logging]
level = "info"
format = "text"
`

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.toml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}

		fmt.Printf("✓ Created default config: %s\n", configPath)
	} else {
		fmt.Printf("Config already exists: %s\n", configPath)
	}

	store, err := kv.Open(kv.Backend(config.GetStorageBackend()), config.GetStoragePath())
	if err != nil {
		return fmt.Errorf("failed to create vault storage: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("failed to close vault storage: %w", err)
	}
	fmt.Printf("✓ Vault storage (%s): %s\n", config.GetStorageBackend(), config.GetStoragePath())

	fmt.Println("\n✓ omnivault initialized successfully!")
	fmt.Println("  You can now use: omnivault add --title <title> --content <text>")

	return nil
}
