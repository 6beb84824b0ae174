package cmd

import (
	"fmt"

	"github.com/pders01/omnivault/internal/graph"
	"github.com/spf13/cobra"
)

var (
	relatedScores bool
	relatedJSON   bool
	relatedToon   bool

	graphJSON bool
	graphToon bool
)

var relatedCmd = &cobra.Command{
	Use:   "related <id>",
	Short: "Find notes related to a note",
	Long: `Find the notes most related to a given note based on:
  - Shared tags (2 points each)
  - Shared title words longer than 3 characters (1.5 points each)
  - Title containment (1 point)

The top 3 notes with a positive score are shown.

Example:
  omnivault related note_0192... --scores`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the related-note graph of the whole vault",
	Long: `List every note with the notes related to it.

Examples:
  omnivault graph
  omnivault graph --json`,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(graphCmd)

	relatedCmd.Flags().BoolVar(&relatedScores, "scores", false, "Show relatedness scores")
	relatedCmd.Flags().BoolVar(&relatedJSON, "json", false, "Output as JSON")
	relatedCmd.Flags().BoolVar(&relatedToon, "toon", false, "Output in LLM-friendly toon format")

	graphCmd.Flags().BoolVar(&graphJSON, "json", false, "Output as JSON")
	graphCmd.Flags().BoolVar(&graphToon, "toon", false, "Output in LLM-friendly toon format")
}

func runRelated(cmd *cobra.Command, args []string) error {
	a, err := openVault(commandContext(cmd), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	target, ok := a.store.Get(args[0])
	if !ok {
		return fmt.Errorf("note does not exist: %s", args[0])
	}

	related := graph.RelatedScored(target, a.store.All())
	if related == nil {
		related = []graph.Scored{}
	}

	if ok, err := printStructured(related, relatedJSON, relatedToon); ok {
		return err
	}

	if len(related) == 0 {
		fmt.Println("No related notes found")
		return nil
	}

	fmt.Printf("Found %d related note(s) for %s:\n\n", len(related), target.Title)
	for i, r := range related {
		if relatedScores {
			fmt.Printf("%d. %s [score: %.1f]\n", i+1, r.Note.Title, r.Score)
		} else {
			fmt.Printf("%d. %s\n", i+1, r.Note.Title)
		}
		fmt.Printf("   ID:    %s\n", r.Note.ID)
		if len(r.Note.Tags) > 0 {
			fmt.Printf("   Tags:  %v\n", r.Note.Tags)
		}
		fmt.Println()
	}
	return nil
}

func runGraph(cmd *cobra.Command, args []string) error {
	a, err := openVault(commandContext(cmd), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	notes := a.store.All()
	edges := graph.Edges(notes)
	if edges == nil {
		edges = []graph.Edge{}
	}

	if ok, err := printStructured(edges, graphJSON, graphToon); ok {
		return err
	}

	if len(edges) == 0 {
		fmt.Println("No related notes found")
		return nil
	}

	titles := make(map[string]string, len(notes))
	for _, n := range notes {
		titles[n.ID] = n.Title
	}
	from := ""
	for _, e := range edges {
		if e.From != from {
			if from != "" {
				fmt.Println()
			}
			from = e.From
			fmt.Printf("%s\n", titles[e.From])
		}
		fmt.Printf("  → %s [%.1f]\n", titles[e.To], e.Score)
	}
	return nil
}
