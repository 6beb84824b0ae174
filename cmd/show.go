package cmd

import (
	"fmt"

	"github.com/pders01/omnivault/internal/graph"
	"github.com/pders01/omnivault/internal/models"
	"github.com/spf13/cobra"
)

var (
	showJSON bool
	showToon bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a note with its related notes",
	Long: `Display a note, the notes related to it and the notes it mentions
as [[Title]].

Example:
  omnivault show note_0192...`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showToon, "toon", false, "Output in LLM-friendly toon format")
}

type noteDetail struct {
	Note     models.Note    `json:"note"`
	Related  []graph.Scored `json:"related"`
	Mentions []models.Note  `json:"mentions"`
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openVault(commandContext(cmd), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	note, ok := a.store.Get(args[0])
	if !ok {
		return fmt.Errorf("note does not exist: %s", args[0])
	}
	notes := a.store.All()
	detail := noteDetail{
		Note:     note,
		Related:  graph.RelatedScored(note, notes),
		Mentions: graph.ResolveMentions(note.Content, notes),
	}
	if detail.Related == nil {
		detail.Related = []graph.Scored{}
	}
	if detail.Mentions == nil {
		detail.Mentions = []models.Note{}
	}

	if ok, err := printStructured(detail, showJSON, showToon); ok {
		return err
	}

	fmt.Printf("Note: %s\n\n", note.ID)
	fmt.Printf("Title:      %s\n", note.Title)
	fmt.Printf("Saved:      %s\n", note.UpdatedTime().Format("2006-01-02 15:04:05"))
	if len(note.Tags) > 0 {
		fmt.Printf("Tags:       %v\n", note.Tags)
	}
	if note.SourceURL != "" {
		fmt.Printf("Source:     %s\n", note.SourceURL)
	}
	if note.ImageURL != "" {
		fmt.Printf("Image:      %s\n", truncate(note.ImageURL, 60))
	}
	if note.Content != "" {
		fmt.Printf("\n%s\n", note.Content)
	}

	if len(detail.Related) > 0 {
		fmt.Println("\nRelated:")
		for _, r := range detail.Related {
			fmt.Printf("  %s  %s [score: %.1f]\n", r.Note.ID, r.Note.Title, r.Score)
		}
	}
	if len(detail.Mentions) > 0 {
		fmt.Println("\nMentions:")
		for _, m := range detail.Mentions {
			fmt.Printf("  %s  %s\n", m.ID, m.Title)
		}
	}
	return nil
}
