package cmd

import (
	"fmt"
	"strings"

	"github.com/pders01/omnivault/internal/assistant"
	"github.com/pders01/omnivault/internal/config"
	"github.com/pders01/omnivault/internal/models"
	"github.com/spf13/cobra"
)

var (
	searchJSON bool
	searchToon bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find notes relevant to a question",
	Long: `Find the notes relevant to a free-text query.

Uses semantic search over local embeddings when Ollama is running with the
configured embedding model, and asks the AI backend to pick notes otherwise.

Example:
  omnivault search "what do I know about mars?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
	searchCmd.Flags().BoolVar(&searchToon, "toon", false, "Output in LLM-friendly toon format")
}

type searchHit struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	Relevance float64  `json:"relevance"`
}

type searchOutput struct {
	Query   string      `json:"query"`
	Mode    string      `json:"mode"`
	Summary string      `json:"summary"`
	Results []searchHit `json:"results"`
}

func toSearchHits(notes []models.Note) []searchHit {
	hits := make([]searchHit, 0, len(notes))
	for _, n := range notes {
		h := searchHit{ID: n.ID, Title: n.Title, Tags: n.Tags}
		if n.RelevanceScore != nil {
			h.Relevance = *n.RelevanceScore
		}
		hits = append(hits, h)
	}
	return hits
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	query := strings.Join(args, " ")

	a, err := openVault(ctx, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if a.store.Len() == 0 {
		fmt.Println("No notes found")
		return nil
	}

	cache := a.embeddingCache(ctx)
	if cache == nil && a.ai == nil {
		_, err := a.requireAI()
		return err
	}
	lookup := assistant.NewLookup(a.store, a.ai, cache, config.GetSearchLimit(), a.logger)

	res, err := lookup.Search(ctx, query)
	if err != nil {
		return err
	}

	out := searchOutput{Query: query, Mode: string(res.Mode), Summary: res.Summary, Results: toSearchHits(res.Notes)}
	if ok, err := printStructured(out, searchJSON, searchToon); ok {
		return err
	}

	if res.Mode == assistant.ModeSemantic {
		fmt.Println("Using semantic search")
	}
	if res.Summary != "" {
		fmt.Printf("%s\n\n", res.Summary)
	}
	if len(out.Results) == 0 {
		fmt.Println("No matching notes found")
		return nil
	}

	fmt.Printf("Found %d matching note(s):\n\n", len(out.Results))
	for i, h := range out.Results {
		fmt.Printf("%d. %s [relevance: %.0f%%]\n", i+1, h.Title, h.Relevance*100)
		fmt.Printf("   ID:   %s\n", h.ID)
		if len(h.Tags) > 0 {
			fmt.Printf("   Tags: %v\n", h.Tags)
		}
		fmt.Println()
	}
	return nil
}
