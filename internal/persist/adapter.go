// Package persist stores the vault's notes and session state in a kv.Store.
// Loads never fail: missing or corrupt values fall back to documented defaults.
package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pders01/omnivault/internal/kv"
	"github.com/pders01/omnivault/internal/models"
)

const (
	KeyNotes          = "omnivault_notes"
	KeyChat           = "omnivault_chat"
	KeyView           = "omnivault_view"
	KeyImporterDraft  = "omnivault_importer_draft"
	KeyResearchQuery  = "omnivault_last_research_query"
	KeyResearchResult = "omnivault_last_research_result"
)

// Adapter serializes vault state to JSON values in a kv.Store.
type Adapter struct {
	store  kv.Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for load warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock sets the clock used to stamp seed notes.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Adapter over store.
func New(store kv.Store, opts ...Option) *Adapter {
	a := &Adapter{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store returns the underlying key-value store.
func (a *Adapter) Store() kv.Store {
	return a.store
}

func (a *Adapter) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := a.store.Put(key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// load decodes key into v. It returns false, after logging, when the key is
// missing, unreadable or malformed.
func (a *Adapter) load(key string, v any) bool {
	data, ok, err := a.store.Get(key)
	if err != nil {
		a.logger.Warn("failed to read stored value, using default", "key", key, "error", err)
		return false
	}
	if !ok {
		a.logger.Debug("no stored value, using default", "key", key)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		a.logger.Warn("malformed stored value, using default", "key", key, "error", err)
		return false
	}
	return true
}

// SaveNotes stores the complete ordered note collection.
func (a *Adapter) SaveNotes(notes []models.Note) error {
	if notes == nil {
		notes = []models.Note{}
	}
	return a.put(KeyNotes, notes)
}

// LoadNotes returns the stored collection, or the seed collection when
// nothing usable is stored. A stored empty collection stays empty.
func (a *Adapter) LoadNotes() []models.Note {
	var notes []models.Note
	if !a.load(KeyNotes, &notes) || notes == nil {
		return models.SeedNotes(a.now())
	}
	return sanitizeNotes(notes, a.logger)
}

func sanitizeNotes(notes []models.Note, logger *slog.Logger) []models.Note {
	out := make([]models.Note, 0, len(notes))
	seen := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		id := strings.TrimSpace(n.ID)
		if id == "" {
			logger.Warn("dropping stored note without id", "title", n.Title)
			continue
		}
		if _, ok := seen[id]; ok {
			logger.Warn("dropping stored note with duplicate id", "id", id)
			continue
		}
		seen[id] = struct{}{}

		n.ID = id
		n.Tags = models.NormalizeTags(n.Tags)
		if strings.TrimSpace(n.Title) == "" {
			n.Title = models.DefaultTitle
		}
		n.RelevanceScore = nil
		out = append(out, n)
	}
	return out
}

// SaveChatHistory stores the complete chat history.
func (a *Adapter) SaveChatHistory(messages []models.ChatMessage) error {
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	return a.put(KeyChat, messages)
}

// LoadChatHistory returns the stored chat history, or an empty history.
func (a *Adapter) LoadChatHistory() []models.ChatMessage {
	var messages []models.ChatMessage
	if !a.load(KeyChat, &messages) {
		return []models.ChatMessage{}
	}
	out := make([]models.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if !m.Valid() {
			a.logger.Warn("dropping malformed chat message", "id", m.ID, "role", m.Role)
			continue
		}
		out = append(out, m)
	}
	return out
}

// SaveView stores the current view.
func (a *Adapter) SaveView(view models.View) error {
	return a.put(KeyView, view)
}

// LoadView returns the stored view, or the default view when the stored
// value is missing or not a known view.
func (a *Adapter) LoadView() models.View {
	var raw string
	if !a.load(KeyView, &raw) {
		return models.DefaultView
	}
	view, ok := models.ParseView(raw)
	if !ok {
		a.logger.Warn("unknown stored view, using default", "view", raw)
	}
	return view
}

// SaveDraft stores unsaved web-import input.
func (a *Adapter) SaveDraft(draft string) error {
	return a.put(KeyImporterDraft, draft)
}

// LoadDraft returns the stored web-import input, or "".
func (a *Adapter) LoadDraft() string {
	var draft string
	if !a.load(KeyImporterDraft, &draft) {
		return ""
	}
	return draft
}

// ClearDraft removes the stored web-import input.
func (a *Adapter) ClearDraft() error {
	return a.store.Delete(KeyImporterDraft)
}

// SaveResearch stores the last research query and its result.
func (a *Adapter) SaveResearch(query string, result models.GroundedResult) error {
	if err := a.put(KeyResearchQuery, query); err != nil {
		return err
	}
	return a.put(KeyResearchResult, result)
}

// LoadResearch returns the last research query and result. ok is false when
// no complete result is stored.
func (a *Adapter) LoadResearch() (query string, result models.GroundedResult, ok bool) {
	if !a.load(KeyResearchQuery, &query) {
		return "", models.GroundedResult{}, false
	}
	if !a.load(KeyResearchResult, &result) {
		return query, models.GroundedResult{}, false
	}
	if result.Sources == nil {
		result.Sources = []models.Source{}
	}
	return query, result, true
}

// ClearResearch removes the stored research query and result.
func (a *Adapter) ClearResearch() error {
	if err := a.store.Delete(KeyResearchQuery); err != nil {
		return err
	}
	return a.store.Delete(KeyResearchResult)
}
