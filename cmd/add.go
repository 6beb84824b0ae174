package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pders01/omnivault/internal/vault"
	"github.com/spf13/cobra"
)

var (
	addTitle     string
	addContent   string
	addTags      []string
	addSourceURL string
	addNoEnrich  bool
	addJSON      bool
)

var addCmd = &cobra.Command{
	Use:   "add [content...]",
	Short: "Add a note to the vault",
	Long: `Add a new note. Content comes from --content, the arguments, or stdin
when the only argument is "-".

Notes with more than 20 characters of content and no image get an
illustration generated in the background (disable with --no-enrich).

Examples:
  omnivault add --title "Mars Habitat" --tag space --tag mars "Domes on Mars"
  echo "long text" | omnivault add --title Draft -`,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addTitle, "title", "", "Note title")
	addCmd.Flags().StringVar(&addContent, "content", "", "Note content")
	addCmd.Flags().StringSliceVar(&addTags, "tag", []string{}, "Add tags")
	addCmd.Flags().StringVar(&addSourceURL, "source-url", "", "URL the note was captured from")
	addCmd.Flags().BoolVar(&addNoEnrich, "no-enrich", false, "Skip image generation")
	addCmd.Flags().BoolVar(&addJSON, "json", false, "Output as JSON")
}

func readContent(flag string, args []string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	content, err := readContent(addContent, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(addTitle) == "" && strings.TrimSpace(content) == "" {
		return fmt.Errorf("a title or content is required")
	}

	a, err := openVault(commandContext(cmd), openOptions{noEnrich: addNoEnrich})
	if err != nil {
		return err
	}
	defer a.Close()

	in := vault.NoteInput{
		Title:   &addTitle,
		Content: &content,
		Tags:    append([]string{}, addTags...),
	}
	if addSourceURL != "" {
		in.SourceURL = &addSourceURL
	}
	note := a.manager.CreateOrUpdate(in, nil)

	if ok, err := printStructured(note, addJSON, false); ok {
		return err
	}

	fmt.Printf("✓ Saved note: %s\n", note.ID)
	fmt.Printf("  Title: %s\n", note.Title)
	if len(note.Tags) > 0 {
		fmt.Printf("  Tags:  %v\n", note.Tags)
	}
	return nil
}
