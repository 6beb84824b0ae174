// Package assistant implements the AI-driven flows of the vault: the chat
// copilot, web import, research lab, smart lookup and audio briefings.
// Every flow ends in ordinary lifecycle calls on the vault.
package assistant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pders01/omnivault/internal/models"
)

var (
	// ErrEmptyInput is returned when a flow is given blank input.
	ErrEmptyInput = errors.New("input is empty")
	// ErrEmptyVault is returned when a flow needs at least one note.
	ErrEmptyVault = errors.New("vault has no notes")
)

// ChatHistory persists the copilot conversation.
type ChatHistory interface {
	LoadChatHistory() []models.ChatMessage
	SaveChatHistory(messages []models.ChatMessage) error
}

// DraftStore persists unsaved import input.
type DraftStore interface {
	LoadDraft() string
	SaveDraft(draft string) error
	ClearDraft() error
}

// ResearchStore persists the last research session.
type ResearchStore interface {
	LoadResearch() (string, models.GroundedResult, bool)
	SaveResearch(query string, result models.GroundedResult) error
	ClearResearch() error
}

// VaultContext renders notes as the context block sent with research queries.
func VaultContext(notes []models.Note) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = fmt.Sprintf("ID: %s TITLE: %s CONTENT: %s", n.ID, n.Title, n.Content)
	}
	return strings.Join(parts, "\n---\n")
}

func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "msg_" + uuid.NewString()
	}
	return "msg_" + id.String()
}

func ptr(s string) *string { return &s }
