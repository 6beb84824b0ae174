package ai

import (
	"fmt"
	"strings"

	"github.com/pders01/omnivault/internal/models"
)

// ConciergeInstruction frames the conversational assistant.
const ConciergeInstruction = `You are the user's personal knowledge concierge.
Default to the user's stored knowledge and decisions. Do not browse the web unless explicitly asked.
Answer with context and continuity, not just facts.
Be concise first: 2-5 sentences unless asked to expand.
When asked about past decisions, prioritize the decision log and linked sources.
When uncertain, say what you checked (which items, which dates) and what is missing.
Never overwhelm: summarize, then offer options.
When you use a note, cite it by writing its id in square brackets, for example [note_123].`

const (
	ResearchInstruction = "You are an advanced research agent. Use Google Search to find latest info. Synthesize how this info relates to the user's current vault. Provide a structured report."
	ImportInstruction   = "Extract the core knowledge from this content. Create a concise title, a summary for the note body, and relevant tags. Return as JSON."
	LookupInstruction   = "You are a semantic search engine. Identify relevant notes. Summarize findings. Return relevant note IDs."
	BriefingInstruction = "Read the following knowledge briefing in a calm, grounded voice."
)

// ImportPrompt wraps raw import text.
func ImportPrompt(raw string) string {
	return "Content to process:\n" + raw
}

// ResearchPrompt combines the vault context with a research query.
func ResearchPrompt(query, vaultContext string) string {
	return fmt.Sprintf("Vault Context:\n%s\n\nResearch Query: %s", vaultContext, query)
}

// LookupPrompt lists the notes a smart lookup may choose from.
func LookupPrompt(query string, notes []models.Note) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = fmt.Sprintf("ID: %s\nTitle: %s\nContent: %s", n.ID, n.Title, n.Content)
	}
	return fmt.Sprintf("Query: %s\n\nNotes Context:\n%s", query, strings.Join(parts, "\n---\n"))
}

// ChatSystemPrompt attaches the vault notes to the concierge instruction.
func ChatSystemPrompt(notes []models.Note) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = fmt.Sprintf("Note [%s]: %s\nContent: %s", n.ID, n.Title, n.Content)
	}
	return ConciergeInstruction + "\n\nAvailable Knowledge Vault:\n" + strings.Join(parts, "\n\n")
}

// VisualPrompt asks for an illustration of a note.
func VisualPrompt(title, content string) string {
	if r := []rune(content); len(r) > 500 {
		content = string(r[:500])
	}
	return fmt.Sprintf("Create a minimalist, atmospheric illustration for a knowledge note titled %q. Theme: %s", title, content)
}

// BriefingScript is the text spoken in an audio briefing.
func BriefingScript(notes []models.Note) string {
	var b strings.Builder
	b.WriteString("Here is your knowledge briefing.\n")
	for _, n := range notes {
		fmt.Fprintf(&b, "\n%s. %s\n", n.Title, n.Content)
	}
	return b.String()
}

// LookupSchema is the JSON schema of a smart-lookup answer.
var LookupSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"summary":     map[string]any{"type": "string"},
		"relevantIds": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
	"required": []string{"summary", "relevantIds"},
}

// ImportSchema is the JSON schema of an import draft.
var ImportSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":   map[string]any{"type": "string"},
		"content": map[string]any{"type": "string"},
		"tags":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
	"required": []string{"title", "content", "tags"},
}
