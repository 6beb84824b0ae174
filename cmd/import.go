package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pders01/omnivault/internal/assistant"
	"github.com/pders01/omnivault/internal/markdown"
	"github.com/pders01/omnivault/internal/models"
	"github.com/pders01/omnivault/internal/vault"
	"github.com/spf13/cobra"
)

var (
	importMarkdown string
	importDraft    bool
)

var importCmd = &cobra.Command{
	Use:   "import [text...]",
	Short: "Import text, a URL or Markdown files as notes",
	Long: `Import pasted text or a URL: the AI backend summarizes it into a titled,
tagged note. The input is kept as a draft until the import succeeds; run
with --draft to retry the last failed import.

With --markdown, Markdown files matching a glob are imported as they are.
A file whose front matter id is already in the vault updates that note.

Examples:
  omnivault import "https://example.com/article"
  pbpaste | omnivault import -
  omnivault import --draft
  omnivault import --markdown "notes/**/*.md"`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importMarkdown, "markdown", "", "Import Markdown files matching a glob (** supported)")
	importCmd.Flags().BoolVar(&importDraft, "draft", false, "Retry the saved draft of a failed import")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := openVault(ctx, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if importMarkdown != "" {
		return importMarkdownFiles(a.manager, importMarkdown)
	}

	capability, err := a.requireAI()
	if err != nil {
		return err
	}
	importer := assistant.NewImporter(capability, a.manager, a.adapter, a.logger)

	raw := importer.Draft()
	if !importDraft {
		raw, err = readContent("", args)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("nothing to import (provide text, a URL or --markdown)")
	}

	note, err := importer.Import(ctx, raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Input saved as draft; retry with: omnivault import --draft")
		return err
	}

	fmt.Printf("✓ Imported note: %s\n", note.ID)
	fmt.Printf("  Title: %s\n", note.Title)
	if len(note.Tags) > 0 {
		fmt.Printf("  Tags:  %v\n", note.Tags)
	}
	if note.SourceURL != "" {
		fmt.Printf("  Source: %s\n", note.SourceURL)
	}
	return nil
}

// importMarkdownFiles creates or updates a note for every file matching
// pattern. Files whose front matter id exists in the vault update that note.
func importMarkdownFiles(m *vault.Manager, pattern string) error {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		fmt.Println("No files match the pattern")
		return nil
	}

	imported := 0
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", path, err)
			continue
		}
		doc, err := markdown.Parse(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse %s: %v\n", path, err)
			continue
		}

		note := m.CreateOrUpdate(documentInput(doc, path), existingNote(m, doc.Meta.ID))
		fmt.Printf("✓ %s → %s\n", path, note.ID)
		imported++
	}

	fmt.Printf("\nImported %d of %d file(s)\n", imported, len(matches))
	return nil
}

func documentInput(doc markdown.Document, path string) vault.NoteInput {
	title := doc.Title()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	content := strings.TrimSpace(doc.Content)
	in := vault.NoteInput{
		Title:   &title,
		Content: &content,
		Tags:    append([]string{}, doc.Meta.Tags...),
	}
	if doc.Meta.SourceURL != "" {
		in.SourceURL = &doc.Meta.SourceURL
	}
	if doc.Meta.ImageURL != "" {
		in.ImageURL = &doc.Meta.ImageURL
	}
	return in
}

func existingNote(m *vault.Manager, id string) *models.Note {
	if id == "" {
		return nil
	}
	n, ok := m.Store().Get(id)
	if !ok {
		return nil
	}
	return &n
}
