package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pders01/omnivault/internal/models"
	"github.com/spf13/cobra"
)

var (
	statsJSON bool
	statsToon bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vault statistics",
	Long: `Display statistics about your vault including:
  - Total note count
  - Tag usage statistics
  - Timeline distribution
  - Image and source coverage

Examples:
  omnivault stats
  omnivault stats --json
  omnivault stats --toon`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsToon, "toon", false, "Output in LLM-friendly toon format")
}

type vaultStats struct {
	TotalNotes    int             `json:"total_notes"`
	WithImages    int             `json:"with_images"`
	WithoutImages int             `json:"without_images"`
	WithSources   int             `json:"with_sources"`
	Untagged      int             `json:"untagged"`
	OldestNote    *time.Time      `json:"oldest_note,omitempty"`
	NewestNote    *time.Time      `json:"newest_note,omitempty"`
	TopTags       []tagInfo       `json:"top_tags"`
	DailyActivity []dailyActivity `json:"daily_activity"`
}

type dailyActivity struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func collectStats(notes []models.Note) vaultStats {
	stats := vaultStats{
		TotalNotes:    len(notes),
		TopTags:       countTags(notes),
		DailyActivity: []dailyActivity{},
	}

	byDate := make(map[string]int)
	for _, n := range notes {
		ts := n.UpdatedTime()
		if stats.OldestNote == nil || ts.Before(*stats.OldestNote) {
			t := ts
			stats.OldestNote = &t
		}
		if stats.NewestNote == nil || ts.After(*stats.NewestNote) {
			t := ts
			stats.NewestNote = &t
		}

		byDate[ts.Format("2006-01-02")]++

		if n.ImageURL != "" {
			stats.WithImages++
		} else {
			stats.WithoutImages++
		}
		if n.SourceURL != "" {
			stats.WithSources++
		}
		if len(n.Tags) == 0 {
			stats.Untagged++
		}
	}

	for date, count := range byDate {
		stats.DailyActivity = append(stats.DailyActivity, dailyActivity{Date: date, Count: count})
	}
	sort.Slice(stats.DailyActivity, func(i, j int) bool {
		return stats.DailyActivity[i].Date > stats.DailyActivity[j].Date
	})
	return stats
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openVault(commandContext(cmd), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	notes := a.store.All()
	if len(notes) == 0 && !statsJSON && !statsToon {
		fmt.Println("No notes found")
		return nil
	}

	stats := collectStats(notes)
	if ok, err := printStructured(stats, statsJSON, statsToon); ok {
		return err
	}
	printStats(stats)
	return nil
}

func printStats(stats vaultStats) {
	fmt.Println("Vault Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━")
	fmt.Println()

	fmt.Printf("Total Notes: %d\n", stats.TotalNotes)
	if stats.OldestNote != nil && stats.NewestNote != nil {
		fmt.Printf("Date Range:  %s to %s\n",
			stats.OldestNote.Format("2006-01-02"),
			stats.NewestNote.Format("2006-01-02"))
	}
	fmt.Println()

	fmt.Println("Coverage:")
	if stats.TotalNotes > 0 {
		percentage := float64(stats.WithImages) / float64(stats.TotalNotes) * 100
		fmt.Printf("  With images:    %3d  (%.1f%%)\n", stats.WithImages, percentage)
		fmt.Printf("  Without images: %3d  (%.1f%%)\n", stats.WithoutImages, 100-percentage)
		fmt.Printf("  With sources:   %3d\n", stats.WithSources)
		fmt.Printf("  Untagged:       %3d\n", stats.Untagged)
	}
	fmt.Println()

	if len(stats.TopTags) > 0 {
		fmt.Println("Top Tags:")
		limit := min(10, len(stats.TopTags))
		for _, ts := range stats.TopTags[:limit] {
			fmt.Printf("  %-20s %3d\n", ts.Tag, ts.Count)
		}
		fmt.Println()
	}

	if len(stats.DailyActivity) > 0 {
		fmt.Println("Recent Activity:")
		limit := min(7, len(stats.DailyActivity))
		for _, da := range stats.DailyActivity[:limit] {
			bar := strings.Repeat("█", min(da.Count, 20))
			fmt.Printf("  %s  %3d  %s\n", da.Date, da.Count, bar)
		}
	}
}
