package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pders01/omnivault/internal/models"
	"github.com/sourcegraph/conc"
)

const (
	// EnrichmentThreshold is the content length (in characters) a note must
	// exceed before an illustration is requested for it.
	EnrichmentThreshold = 20

	defaultEnrichmentTimeout = 60 * time.Second
	noteIDPrefix             = "note_"
)

// ErrNoteNotFound is returned when an operation names an unknown note id.
var ErrNoteNotFound = errors.New("note not found")

// Illustrator generates an image for a note and returns its URL.
type Illustrator interface {
	GenerateVisual(ctx context.Context, title, content string) (string, error)
}

// NoteInput carries the caller-supplied fields of a create or edit.
// A nil field is absent; for Tags, nil is absent and an empty slice clears.
type NoteInput struct {
	Title     *string
	Content   *string
	Tags      []string
	SourceURL *string
	ImageURL  *string
}

// Manager applies the note lifecycle rules on top of a Store.
type Manager struct {
	store       *Store
	illustrator Illustrator
	logger      *slog.Logger
	now         func() time.Time
	timeout     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithIllustrator enables background image enrichment.
func WithIllustrator(i Illustrator) ManagerOption {
	return func(m *Manager) {
		m.illustrator = i
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithEnrichmentTimeout bounds each enrichment request.
func WithEnrichmentTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewManager creates a Manager for store.
func NewManager(store *Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:   store,
		logger:  slog.Default(),
		now:     time.Now,
		timeout: defaultEnrichmentTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// Store returns the managed store.
func (m *Manager) Store() *Store {
	return m.store
}

// NewNoteID mints a note id. UUIDv7 ids sort by creation time.
func NewNoteID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return noteIDPrefix + id.String()
}

func (m *Manager) mintID() string {
	for {
		id := NewNoteID()
		if !m.store.Has(id) {
			return id
		}
	}
}

// CreateOrUpdate builds a note from in, upserts it at the front of the
// collection and returns it. With existing set, absent fields keep their
// previous values and the id and image are carried over. Without it, a new
// id is minted and defaults fill missing fields.
//
// When the saved note has no image and enough content, an illustration is
// requested in the background; it is attached only if the note still exists.
func (m *Manager) CreateOrUpdate(in NoteInput, existing *models.Note) models.Note {
	var note models.Note
	if existing != nil {
		note = existing.Clone()
	} else {
		note = models.Note{ID: m.mintID(), Tags: []string{}}
	}
	note = m.apply(in, note)

	m.store.Upsert(note)
	m.saved(note, existing == nil)
	return note.Clone()
}

// Update edits the stored note with id. The edit is applied to the note as
// stored at write time, so an image attached concurrently is kept.
func (m *Manager) Update(id string, in NoteInput) (models.Note, error) {
	note, ok := m.store.Modify(id, func(cur models.Note) models.Note {
		return m.apply(in, cur)
	})
	if !ok {
		return models.Note{}, fmt.Errorf("failed to update %s: %w", id, ErrNoteNotFound)
	}
	m.saved(note, false)
	return note, nil
}

func (m *Manager) apply(in NoteInput, note models.Note) models.Note {
	if in.Title != nil {
		note.Title = strings.TrimSpace(*in.Title)
	}
	if note.Title == "" {
		note.Title = models.DefaultTitle
	}
	if in.Content != nil {
		note.Content = *in.Content
	}
	if in.Tags != nil {
		note.Tags = in.Tags
	}
	note.Tags = models.NormalizeTags(note.Tags)
	if in.SourceURL != nil {
		note.SourceURL = strings.TrimSpace(*in.SourceURL)
	}
	if in.ImageURL != nil {
		note.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	note.RelevanceScore = nil

	now := m.now().UnixMilli()
	if now < note.UpdatedAt {
		// clock went backwards; never move a note into the past
		now = note.UpdatedAt
	}
	note.UpdatedAt = now
	return note
}

func (m *Manager) saved(note models.Note, created bool) {
	m.logger.Debug("note saved", "id", note.ID, "new", created)
	if m.shouldEnrich(note) {
		m.enrich(note)
	}
}

// Delete removes the note with id. It reports whether a note was removed.
func (m *Manager) Delete(id string) bool {
	removed := m.store.Remove(id)
	if removed {
		m.logger.Debug("note deleted", "id", id)
	}
	return removed
}

func (m *Manager) shouldEnrich(note models.Note) bool {
	return m.illustrator != nil &&
		note.ImageURL == "" &&
		utf8.RuneCountInString(note.Content) > EnrichmentThreshold
}

func (m *Manager) enrich(note models.Note) {
	id, title, content := note.ID, note.Title, note.Content
	m.wg.Go(func() {
		ctx, cancel := context.WithTimeout(m.ctx, m.timeout)
		defer cancel()

		url, err := m.illustrator.GenerateVisual(ctx, title, content)
		if err != nil {
			m.logger.Debug("image enrichment failed", "id", id, "error", err)
			return
		}
		if url == "" {
			m.logger.Debug("image enrichment returned no image", "id", id)
			return
		}
		if !m.store.AttachImage(id, url, m.now().UnixMilli()) {
			m.logger.Debug("dropping late image enrichment", "id", id)
			return
		}
		m.logger.Info("note illustrated", "id", id)
	})
}

// Wait blocks until all in-flight enrichment has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Shutdown cancels in-flight enrichment and waits for it to stop.
func (m *Manager) Shutdown() {
	m.cancel()
	m.wg.Wait()
}
