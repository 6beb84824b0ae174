// Package ai defines the generative-AI capabilities the vault consumes and
// validates the structured responses they return.
package ai

import (
	"context"
	"errors"

	"github.com/pders01/omnivault/internal/models"
)

var (
	// ErrUnsupported is returned by backends that lack an operation.
	ErrUnsupported = errors.New("operation not supported by this AI backend")
	// ErrMalformedResponse is returned when a structured response does not
	// match its expected shape.
	ErrMalformedResponse = errors.New("malformed AI response")
)

// ImportDraft is the note payload extracted from imported text.
type ImportDraft struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Lookup is the raw answer of a semantic search over the vault.
type Lookup struct {
	Summary     string   `json:"summary"`
	RelevantIDs []string `json:"relevantIds"`
}

// ChatRequest is one conversational turn against the vault.
type ChatRequest struct {
	Message string
	History []models.ChatMessage
	Notes   []models.Note
}

// Summarizer turns raw pasted or fetched text into a note draft.
type Summarizer interface {
	SummarizeImport(ctx context.Context, raw string) (ImportDraft, error)
}

// Chatter answers a chat message. onChunk, when set, receives streamed text
// as it arrives; the full reply is returned either way.
type Chatter interface {
	Chat(ctx context.Context, req ChatRequest, onChunk func(string)) (string, error)
}

// Researcher produces a report for a query with the vault as context.
type Researcher interface {
	Research(ctx context.Context, query, vaultContext string) (models.GroundedResult, error)
}

// Searcher picks the notes relevant to a query.
type Searcher interface {
	SmartLookup(ctx context.Context, query string, notes []models.Note) (Lookup, error)
}

// Illustrator generates an image for a note. An empty URL with a nil error
// means the backend produced no image.
type Illustrator interface {
	GenerateVisual(ctx context.Context, title, content string) (string, error)
}

// Narrator synthesizes a spoken briefing of notes as raw 16-bit mono PCM.
type Narrator interface {
	SynthesizeBriefing(ctx context.Context, notes []models.Note) ([]byte, error)
}

// Embedder turns text into a vector for semantic search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Capability is the full generative-AI surface a backend provides.
type Capability interface {
	Summarizer
	Chatter
	Researcher
	Searcher
	Illustrator
	Narrator
}
