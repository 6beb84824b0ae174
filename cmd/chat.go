package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pders01/omnivault/internal/assistant"
	"github.com/pders01/omnivault/internal/models"
	"github.com/spf13/cobra"
)

var (
	chatClear   bool
	chatHistory bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Talk to the vault copilot",
	Long: `Ask the copilot about your notes. Replies cite the notes they used as
[note-id]; cited notes are listed below the reply.

Without a message, an interactive session reads one message per line until
EOF or "exit".

Examples:
  omnivault chat "what did I save about mars?"
  omnivault chat --history
  omnivault chat --clear`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&chatClear, "clear", false, "Delete the conversation")
	chatCmd.Flags().BoolVar(&chatHistory, "history", false, "Print the conversation so far")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := openVault(ctx, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if chatClear {
		copilot := assistant.NewCopilot(a.ai, a.store, a.adapter, a.logger)
		if err := copilot.Clear(); err != nil {
			return err
		}
		fmt.Println("✓ Conversation cleared")
		return nil
	}

	if chatHistory {
		printChatHistory(a.adapter.LoadChatHistory())
		return nil
	}

	capability, err := a.requireAI()
	if err != nil {
		return err
	}
	copilot := assistant.NewCopilot(capability, a.store, a.adapter, a.logger)

	send := func(text string) error {
		msg, err := copilot.Send(ctx, text, func(chunk string) { fmt.Print(chunk) })
		if err != nil {
			fmt.Println(msg.Text)
			return err
		}
		fmt.Println()
		printLinkedNotes(a.store.All(), msg.LinkedNoteIDs)
		return nil
	}

	if len(args) > 0 {
		return send(strings.Join(args, " "))
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			return nil
		}
		if err := send(text); err != nil {
			a.logger.Warn("chat failed", "error", err)
		}
	}
}

func printLinkedNotes(notes []models.Note, ids []string) {
	if len(ids) == 0 {
		return
	}
	titles := make(map[string]string, len(notes))
	for _, n := range notes {
		titles[n.ID] = n.Title
	}
	fmt.Println("\nLinked notes:")
	for _, id := range ids {
		title, ok := titles[id]
		if !ok {
			// the note may have been deleted since the reply
			title = "(deleted)"
		}
		fmt.Printf("  [%s] %s\n", id, title)
	}
}

func printChatHistory(messages []models.ChatMessage) {
	if len(messages) == 0 {
		fmt.Println("No conversation yet")
		return
	}
	for _, m := range messages {
		who := "you"
		if m.Role == models.RoleAssistant {
			who = "vault"
		}
		fmt.Printf("%s %s: %s\n", m.Time().Format("15:04"), who, m.Text)
		if len(m.LinkedNoteIDs) > 0 {
			fmt.Printf("      linked: %s\n", strings.Join(m.LinkedNoteIDs, ", "))
		}
	}
}
