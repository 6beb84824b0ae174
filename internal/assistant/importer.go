package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/models"
	"github.com/pders01/omnivault/internal/vault"
)

// Importer turns pasted text or URLs into notes.
type Importer struct {
	summarizer ai.Summarizer
	manager    *vault.Manager
	drafts     DraftStore
	logger     *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(summarizer ai.Summarizer, manager *vault.Manager, drafts DraftStore, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{summarizer: summarizer, manager: manager, drafts: drafts, logger: logger}
}

// Draft returns input saved by an earlier import that did not complete.
func (i *Importer) Draft() string {
	return i.drafts.LoadDraft()
}

// Import summarizes raw into a note and saves it. The input is kept as a
// draft until the import succeeds.
func (i *Importer) Import(ctx context.Context, raw string) (models.Note, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Note{}, ErrEmptyInput
	}
	if err := i.drafts.SaveDraft(raw); err != nil {
		i.logger.Warn("failed to save import draft", "error", err)
	}

	draft, err := i.summarizer.SummarizeImport(ctx, raw)
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to summarize import: %w", err)
	}

	in := vault.NoteInput{
		Title:   ptr(draft.Title),
		Content: ptr(draft.Content),
		Tags:    append([]string{}, draft.Tags...),
	}
	if u := SourceURL(raw); u != "" {
		in.SourceURL = ptr(u)
	}
	note := i.manager.CreateOrUpdate(in, nil)

	if err := i.drafts.ClearDraft(); err != nil {
		i.logger.Warn("failed to clear import draft", "error", err)
	}
	return note, nil
}

// SourceURL returns the first http(s) URL in text, or "".
func SourceURL(text string) string {
	for _, field := range strings.Fields(text) {
		lower := strings.ToLower(field)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			return strings.TrimRight(field, ".,;:)]}>\"'")
		}
	}
	return ""
}
