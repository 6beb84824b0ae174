package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/omnivault/internal/markdown"
	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes as Markdown files",
	Long: `Write every note to a Markdown file with YAML front matter.

Exported files can be imported again with: omnivault import --markdown

Example:
  omnivault export --dir ./vault-export`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDir, "dir", "omnivault-export", "Directory to write Markdown files to")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openVault(commandContext(cmd), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	notes := a.store.All()
	if len(notes) == 0 {
		fmt.Println("No notes found")
		return nil
	}

	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	for _, n := range notes {
		data, err := markdown.Render(n)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", n.ID, err)
		}
		path := filepath.Join(exportDir, markdown.Filename(n))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	fmt.Printf("✓ Exported %d note(s) to %s\n", len(notes), exportDir)
	return nil
}
