package cmd

import (
	"fmt"

	"github.com/pders01/omnivault/internal/models"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view [name]",
	Short: "Show or set the current view",
	Long: `Show or set the screen a front end should open on. The choice is
persisted with the vault.

Examples:
  omnivault view
  omnivault view copilot`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	a, err := openVault(commandContext(cmd), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		current := a.adapter.LoadView()
		for _, v := range models.Views {
			marker := " "
			if v == current {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, v)
		}
		return nil
	}

	view, ok := models.ParseView(args[0])
	if !ok {
		return fmt.Errorf("unknown view: %s", args[0])
	}
	if err := a.adapter.SaveView(view); err != nil {
		return fmt.Errorf("failed to save view: %w", err)
	}
	fmt.Printf("✓ Current view: %s\n", view)
	return nil
}
