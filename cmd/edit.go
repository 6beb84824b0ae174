package cmd

import (
	"errors"
	"fmt"

	"github.com/pders01/omnivault/internal/vault"
	"github.com/spf13/cobra"
)

var (
	editTitle      string
	editContent    string
	editTags       []string
	editSourceURL  string
	editClearImage bool
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a note",
	Long: `Edit an existing note. Only the given fields change; the note moves to
the front of the vault.

Examples:
  omnivault edit note_0192... --title "Mars Habitat v2"
  omnivault edit note_0192... --tag space --tag habitat
  omnivault edit note_0192... --clear-image`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
	editCmd.Flags().StringSliceVar(&editTags, "tag", nil, "Replace tags")
	editCmd.Flags().StringVar(&editSourceURL, "source-url", "", "New source URL")
	editCmd.Flags().BoolVar(&editClearImage, "clear-image", false, "Remove the image so a new one is generated")
}

// flagChanged reports whether the named flag was given. Without a command
// a non-zero value counts as given.
func flagChanged(cmd *cobra.Command, name string, nonZero bool) bool {
	if cmd == nil {
		return nonZero
	}
	return cmd.Flags().Changed(name)
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := openVault(commandContext(cmd), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	var in vault.NoteInput
	if flagChanged(cmd, "title", editTitle != "") {
		in.Title = &editTitle
	}
	if flagChanged(cmd, "content", editContent != "") {
		in.Content = &editContent
	}
	if flagChanged(cmd, "tag", editTags != nil) {
		in.Tags = append([]string{}, editTags...)
	}
	if flagChanged(cmd, "source-url", editSourceURL != "") {
		in.SourceURL = &editSourceURL
	}
	if editClearImage {
		empty := ""
		in.ImageURL = &empty
	}

	note, err := a.manager.Update(args[0], in)
	if errors.Is(err, vault.ErrNoteNotFound) {
		return fmt.Errorf("note does not exist: %s", args[0])
	}
	if err != nil {
		return err
	}

	fmt.Printf("✓ Updated note: %s\n", note.ID)
	fmt.Printf("  Title: %s\n", note.Title)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openVault(commandContext(cmd), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.manager.Delete(args[0]) {
		return fmt.Errorf("note does not exist: %s", args[0])
	}
	fmt.Printf("✓ Deleted note: %s\n", args[0])
	return nil
}
