package cmd

import (
	"fmt"
	"time"

	"github.com/pders01/omnivault/internal/config"
	"github.com/pders01/omnivault/internal/models"
	"github.com/spf13/cobra"
)

var (
	pruneDryRun bool
	pruneForce  bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old notes based on retention policy",
	Long: `Remove notes not saved within the retention period.

The retention policy is configured in ~/.config/omnivault/config.toml:
  [retention]
  days = 90
  preserve_tags = ["important", "research"]

Notes with preserve tags will never be pruned.

Example:
  omnivault prune              # Show what would be pruned
  omnivault prune --force      # Actually prune notes`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", true, "Show what would be pruned without deleting")
	pruneCmd.Flags().BoolVar(&pruneForce, "force", false, "Actually delete notes (overrides dry-run)")
}

type pruneCandidate struct {
	Note      models.Note
	Age       time.Duration
	Preserved bool
	Reason    string
}

// planPrune splits notes into those to prune and those to keep.
func planPrune(notes []models.Note, retentionDays int, now time.Time) (toPrune, toPreserve []pruneCandidate) {
	cutoffDate := now.AddDate(0, 0, -retentionDays)

	for _, n := range notes {
		candidate := pruneCandidate{
			Note: n,
			Age:  now.Sub(n.UpdatedTime()),
		}

		switch {
		case config.ShouldPreserve(n.Tags):
			candidate.Preserved = true
			candidate.Reason = "has preserve tag"
			toPreserve = append(toPreserve, candidate)
		case n.UpdatedTime().Before(cutoffDate):
			candidate.Reason = fmt.Sprintf("older than %d days", retentionDays)
			toPrune = append(toPrune, candidate)
		default:
			candidate.Preserved = true
			candidate.Reason = "within retention period"
			toPreserve = append(toPreserve, candidate)
		}
	}
	return toPrune, toPreserve
}

func runPrune(cmd *cobra.Command, args []string) error {
	retentionDays := config.GetRetentionDays()
	preserveTags := config.GetPreserveTags()
	now := time.Now()

	fmt.Printf("Retention policy: %d days\n", retentionDays)
	fmt.Printf("Preserve tags: %v\n", preserveTags)
	fmt.Printf("Cutoff date: %s\n\n", now.AddDate(0, 0, -retentionDays).Format("2006-01-02"))

	a, err := openVault(commandContext(cmd), openOptions{noEnrich: true})
	if err != nil {
		return err
	}
	defer a.Close()

	notes := a.store.All()
	if len(notes) == 0 {
		fmt.Println("No notes found")
		return nil
	}

	toPrune, toPreserve := planPrune(notes, retentionDays, now)
	if len(toPrune) == 0 {
		fmt.Println("No notes to prune")
		return nil
	}

	fmt.Printf("Notes to prune (%d):\n\n", len(toPrune))
	for _, c := range toPrune {
		fmt.Printf("  %s  %s\n", c.Note.ID, c.Note.Title)
		fmt.Printf("    Age:    %s\n", formatDuration(c.Age))
		fmt.Printf("    Reason: %s\n", c.Reason)
		if len(c.Note.Tags) > 0 {
			fmt.Printf("    Tags:   %v\n", c.Note.Tags)
		}
		fmt.Println()
	}

	if len(toPreserve) > 0 {
		fmt.Printf("Notes to preserve: %d\n\n", len(toPreserve))
	}

	if pruneForce || !pruneDryRun {
		fmt.Println("Pruning notes...")
		deleted := 0
		for _, c := range toPrune {
			if a.manager.Delete(c.Note.ID) {
				deleted++
			}
		}
		if cache := a.embeddingCache(commandContext(cmd)); cache != nil {
			if _, err := cache.Prune(a.store.All()); err != nil {
				a.logger.Warn("failed to prune embedding cache", "error", err)
			}
		}
		fmt.Printf("\n✓ Pruned %d note(s)\n", deleted)
	} else {
		fmt.Println("This is a dry run. Use --force to actually prune notes.")
	}

	return nil
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days == 0 {
		return "< 1 day"
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
