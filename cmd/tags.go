package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pders01/omnivault/internal/models"
	"github.com/pders01/omnivault/internal/vault"
	"github.com/spf13/cobra"
)

var (
	tagsJSON   bool
	tagsToon   bool
	tagsRename string
)

var tagsCmd = &cobra.Command{
	Use:   "tags [old-tag]",
	Short: "List or manage tags",
	Long: `List all tags used across notes with usage counts.
Optionally rename a tag across all notes.

Examples:
  omnivault tags                    # List all tags
  omnivault tags space --rename astronomy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)

	tagsCmd.Flags().BoolVar(&tagsJSON, "json", false, "Output as JSON")
	tagsCmd.Flags().BoolVar(&tagsToon, "toon", false, "Output in LLM-friendly toon format")
	tagsCmd.Flags().StringVar(&tagsRename, "rename", "", "Rename tag to new value")
}

type tagInfo struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// countTags returns tag usage, most used first and then alphabetically.
func countTags(notes []models.Note) []tagInfo {
	tagCounts := make(map[string]int)
	for _, n := range notes {
		for _, tag := range n.Tags {
			tagCounts[tag]++
		}
	}

	tags := make([]tagInfo, 0, len(tagCounts))
	for tag, count := range tagCounts {
		tags = append(tags, tagInfo{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count == tags[j].Count {
			return tags[i].Tag < tags[j].Tag
		}
		return tags[i].Count > tags[j].Count
	})
	return tags
}

func runTags(cmd *cobra.Command, args []string) error {
	if tagsRename != "" && len(args) == 0 {
		return fmt.Errorf("tag name required for --rename")
	}

	a, err := openVault(commandContext(cmd), openOptions{noEnrich: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if tagsRename != "" {
		updated := renameTag(a.manager, args[0], tagsRename)
		fmt.Printf("Renamed tag '%s' → '%s' in %d note(s)\n", args[0], tagsRename, updated)
		return nil
	}

	tags := countTags(a.store.All())

	if ok, err := printStructured(tags, tagsJSON, tagsToon); ok {
		return err
	}

	if len(tags) == 0 {
		fmt.Println("No tags found")
		return nil
	}

	fmt.Printf("Found %d tag(s):\n\n", len(tags))
	for _, t := range tags {
		fmt.Printf("  %-30s %3d\n", t.Tag, t.Count)
	}
	return nil
}

// renameTag replaces oldTag with newTag on every note carrying it and
// returns the number of notes changed.
func renameTag(m *vault.Manager, oldTag, newTag string) int {
	oldTag = strings.ToLower(strings.TrimSpace(oldTag))
	updated := 0

	for _, n := range m.Store().All() {
		if !n.HasTag(oldTag) {
			continue
		}
		tags := make([]string, len(n.Tags))
		for i, tag := range n.Tags {
			if tag == oldTag {
				tag = newTag
			}
			tags[i] = tag
		}
		if _, err := m.Update(n.ID, vault.NoteInput{Tags: tags}); err != nil {
			continue
		}
		updated++
	}
	return updated
}
