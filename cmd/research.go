package cmd

import (
	"fmt"
	"strings"

	"github.com/pders01/omnivault/internal/assistant"
	"github.com/pders01/omnivault/internal/models"
	"github.com/spf13/cobra"
)

var (
	researchImport  bool
	researchSources bool
	researchClear   bool
	researchLast    bool
	researchJSON    bool
)

var researchCmd = &cobra.Command{
	Use:   "research [query...]",
	Short: "Run grounded web research with the vault as context",
	Long: `Research a question with web search, using the notes in the vault as
context. The last session is kept until cleared and can be saved as notes.

Examples:
  omnivault research "current state of fusion energy"
  omnivault research --last --import            # save the last report
  omnivault research --last --import --sources  # also save each source
  omnivault research --clear`,
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)

	researchCmd.Flags().BoolVar(&researchImport, "import", false, "Save the report as a note")
	researchCmd.Flags().BoolVar(&researchSources, "sources", false, "With --import, also save each source as a note")
	researchCmd.Flags().BoolVar(&researchClear, "clear", false, "Forget the last research session")
	researchCmd.Flags().BoolVar(&researchLast, "last", false, "Use the last research session instead of running a query")
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "Output as JSON")
}

func runResearch(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := openVault(ctx, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	lab := assistant.NewResearchLab(a.ai, a.manager, a.adapter, a.logger)

	if researchClear {
		if err := lab.Clear(); err != nil {
			return fmt.Errorf("failed to clear research session: %w", err)
		}
		fmt.Println("✓ Research session cleared")
		return nil
	}

	var (
		query  string
		result models.GroundedResult
	)
	if researchLast || len(args) == 0 {
		var ok bool
		query, result, ok = lab.Last()
		if !ok {
			return fmt.Errorf("no research session found (provide a query)")
		}
	} else {
		if _, err := a.requireAI(); err != nil {
			return err
		}
		query = strings.Join(args, " ")
		fmt.Printf("Researching: %s\n\n", query)
		result, err = lab.Research(ctx, query)
		if err != nil {
			return err
		}
	}

	if researchImport {
		note := lab.ImportReport(query, result)
		fmt.Printf("✓ Saved report: %s\n", note.ID)
		if researchSources {
			for _, src := range result.Sources {
				n := lab.ImportSource(query, src)
				fmt.Printf("✓ Saved source: %s (%s)\n", n.ID, src.URI)
			}
		}
		return nil
	}

	if ok, err := printStructured(struct {
		Query string `json:"query"`
		models.GroundedResult
	}{query, result}, researchJSON, false); ok {
		return err
	}

	fmt.Println(result.Text)
	if len(result.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, src := range result.Sources {
			fmt.Printf("  %d. %s\n     %s\n", i+1, src.Title, src.URI)
		}
	}
	return nil
}
