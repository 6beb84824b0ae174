package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/pders01/omnivault/internal/models"
	"github.com/spf13/cobra"
)

var (
	listTag     string
	listToday   bool
	listSince   string
	listLimit   int
	listGroupBy string
	listJSON    bool
	listToon    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes in the vault",
	Long: `List notes, most recently saved first, with optional filtering.

Examples:
  omnivault list
  omnivault list --tag space
  omnivault list --today
  omnivault list --since 2025-10-01
  omnivault list --group-by tag`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show only notes saved today")
	listCmd.Flags().StringVar(&listSince, "since", "", "Show notes saved since date (YYYY-MM-DD)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of notes to show")
	listCmd.Flags().StringVar(&listGroupBy, "group-by", "", "Group output by: tag")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listToon, "toon", false, "Output in LLM-friendly toon format")
}

// filterNotes applies the list filters to notes, keeping their order.
func filterNotes(notes []models.Note, tag string, today bool, since string, now time.Time) ([]models.Note, error) {
	var sinceDate time.Time
	if since != "" {
		d, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid --since date format (use YYYY-MM-DD): %w", err)
		}
		sinceDate = d
	}
	todayDate := now.Format("2006-01-02")

	out := []models.Note{}
	for _, n := range notes {
		if tag != "" && !n.HasTag(tag) {
			continue
		}
		if today && n.UpdatedTime().Format("2006-01-02") != todayDate {
			continue
		}
		if !sinceDate.IsZero() && n.UpdatedTime().Before(sinceDate) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openVault(commandContext(cmd), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	notes, err := filterNotes(a.store.All(), listTag, listToday, listSince, time.Now())
	if err != nil {
		return err
	}
	if listLimit > 0 && len(notes) > listLimit {
		notes = notes[:listLimit]
	}

	if ok, err := printStructured(notes, listJSON, listToon); ok {
		return err
	}

	if len(notes) == 0 {
		if a.store.Len() == 0 {
			fmt.Println("No notes found")
		} else {
			fmt.Println("No notes match the filter criteria")
		}
		return nil
	}

	if listGroupBy == "tag" {
		printNotesByTag(notes)
		return nil
	}

	fmt.Printf("Found %d note(s):\n\n", len(notes))
	for _, n := range notes {
		printNoteSummary(n, "  ")
	}
	return nil
}

func printNoteSummary(n models.Note, indent string) {
	fmt.Printf("%s%s  %s\n", indent, n.ID, n.Title)
	fmt.Printf("%s  Saved:   %s\n", indent, n.UpdatedTime().Format("2006-01-02 15:04"))
	if len(n.Tags) > 0 {
		fmt.Printf("%s  Tags:    %v\n", indent, n.Tags)
	}
	if n.Content != "" {
		fmt.Printf("%s  Content: %s\n", indent, truncate(n.Content, 60))
	}
	if n.ImageURL != "" {
		fmt.Printf("%s  Image:   yes\n", indent)
	}
	fmt.Println()
}

func printNotesByTag(notes []models.Note) {
	groups := make(map[string][]models.Note)
	for _, n := range notes {
		if len(n.Tags) == 0 {
			groups["(untagged)"] = append(groups["(untagged)"], n)
			continue
		}
		for _, tag := range n.Tags {
			groups[tag] = append(groups[tag], n)
		}
	}

	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		fmt.Printf("%s (%d)\n", tag, len(groups[tag]))
		for _, n := range groups[tag] {
			fmt.Printf("  %s  %s\n", n.ID, n.Title)
		}
		fmt.Println()
	}
}
