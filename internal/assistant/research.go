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

// ResearchLab runs grounded research queries against the vault.
type ResearchLab struct {
	researcher ai.Researcher
	manager    *vault.Manager
	sessions   ResearchStore
	logger     *slog.Logger
}

// NewResearchLab creates a ResearchLab.
func NewResearchLab(researcher ai.Researcher, manager *vault.Manager, sessions ResearchStore, logger *slog.Logger) *ResearchLab {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResearchLab{researcher: researcher, manager: manager, sessions: sessions, logger: logger}
}

// Research runs query with the whole vault as context and remembers the result.
func (r *ResearchLab) Research(ctx context.Context, query string) (models.GroundedResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.GroundedResult{}, ErrEmptyInput
	}

	result, err := r.researcher.Research(ctx, query, VaultContext(r.manager.Store().All()))
	if err != nil {
		return models.GroundedResult{}, fmt.Errorf("failed to research %q: %w", query, err)
	}
	if result.Sources == nil {
		result.Sources = []models.Source{}
	}

	if err := r.sessions.SaveResearch(query, result); err != nil {
		r.logger.Warn("failed to save research session", "error", err)
	}
	return result, nil
}

// Last returns the most recent research session, if any.
func (r *ResearchLab) Last() (string, models.GroundedResult, bool) {
	return r.sessions.LoadResearch()
}

// Clear forgets the stored research session.
func (r *ResearchLab) Clear() error {
	return r.sessions.ClearResearch()
}

// ImportReport saves a research report as a note.
func (r *ResearchLab) ImportReport(query string, result models.GroundedResult) models.Note {
	return r.manager.CreateOrUpdate(vault.NoteInput{
		Title:   ptr("Research: " + query),
		Content: ptr(result.Text),
		Tags:    []string{"research", "ai-synthesis"},
	}, nil)
}

// ImportSource saves one cited source as a note.
func (r *ResearchLab) ImportSource(query string, src models.Source) models.Note {
	return r.manager.CreateOrUpdate(vault.NoteInput{
		Title:     ptr(src.Title),
		Content:   ptr(fmt.Sprintf("Source: %s\n\nAbstracted from Research Lab session regarding: %s", src.URI, query)),
		Tags:      []string{"research-source"},
		SourceURL: ptr(src.URI),
	}, nil)
}
