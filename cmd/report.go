package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <template>",
	Short: "Generate pre-defined reports",
	Long: `Generate formatted reports using pre-defined templates.

Available templates:
  daily   - Today's notes grouped by tag with summary stats

Examples:
  omnivault report daily`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	template := args[0]

	switch template {
	case "daily":
		return generateDailyReport(cmd)
	default:
		return fmt.Errorf("unknown report template: %s (available: daily)", template)
	}
}

func generateDailyReport(cmd *cobra.Command) error {
	a, err := openVault(commandContext(cmd), openOptions{noEnrich: true})
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println("Daily Vault Report")
	fmt.Println("══════════════════")
	fmt.Println()

	notes := a.store.All()
	fmt.Println("Summary")
	fmt.Println("───────")
	if len(notes) == 0 {
		fmt.Println("No notes found")
		return nil
	}
	printStats(collectStats(notes))

	fmt.Println()
	fmt.Println("Today's Notes by Tag")
	fmt.Println("────────────────────")

	today, err := filterNotes(notes, "", true, "", time.Now())
	if err != nil {
		return err
	}
	if len(today) == 0 {
		fmt.Println("No notes saved today")
		return nil
	}
	printNotesByTag(today)
	return nil
}
