// Package vault holds the in-memory note collection and the lifecycle rules
// for creating, editing, enriching and deleting notes.
package vault

import (
	"log/slog"
	"sync"

	"github.com/pders01/omnivault/internal/models"
)

// Persister durably stores the note collection.
type Persister interface {
	SaveNotes(notes []models.Note) error
	LoadNotes() []models.Note
}

// Store is the authoritative, ordered (most-recent-first) note collection.
// Mutations are serialized; each one schedules a full-collection write that a
// single background writer performs, coalescing bursts into the latest state.
type Store struct {
	mu    sync.RWMutex
	notes []models.Note

	persister Persister
	logger    *slog.Logger

	wmu     sync.Mutex
	wcond   *sync.Cond
	pending []models.Note
	dirty   bool
	queued  uint64
	written uint64
	closed  bool
	stopped chan struct{}
}

// NewStore creates an empty Store. A nil persister keeps the store in memory.
func NewStore(persister Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		persister: persister,
		logger:    logger,
		stopped:   make(chan struct{}),
	}
	s.wcond = sync.NewCond(&s.wmu)
	go s.writeLoop()
	return s
}

// Load replaces the collection with what the persister returns.
func (s *Store) Load() {
	if s.persister == nil {
		return
	}
	notes := s.persister.LoadNotes()
	s.mu.Lock()
	s.notes = models.CloneNotes(notes)
	s.mu.Unlock()
}

// All returns a copy of the collection in display order.
func (s *Store) All() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := models.CloneNotes(s.notes)
	if out == nil {
		out = []models.Note{}
	}
	return out
}

// Get returns the note with id.
func (s *Store) Get(id string) (models.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.notes[i].Clone(), true
	}
	return models.Note{}, false
}

// Has reports whether a note with id exists.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index(id) >= 0
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// ReplaceAll swaps the entire collection.
func (s *Store) ReplaceAll(notes []models.Note) {
	s.mu.Lock()
	s.notes = models.CloneNotes(notes)
	snapshot := models.CloneNotes(s.notes)
	s.mu.Unlock()
	s.schedule(snapshot)
}

// Upsert removes any note with the same id and inserts note at the front.
func (s *Store) Upsert(note models.Note) {
	note = note.Clone()
	note.RelevanceScore = nil

	s.mu.Lock()
	next := make([]models.Note, 0, len(s.notes)+1)
	next = append(next, note)
	for _, n := range s.notes {
		if n.ID != note.ID {
			next = append(next, n)
		}
	}
	s.notes = next
	snapshot := models.CloneNotes(s.notes)
	s.mu.Unlock()
	s.schedule(snapshot)
}

// Modify replaces note id with fn applied to its stored value and moves it
// to the front, all under one lock. It reports false for an unknown id.
func (s *Store) Modify(id string, fn func(models.Note) models.Note) (models.Note, bool) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Note{}, false
	}
	note := fn(s.notes[i].Clone())
	note.ID = id
	note.RelevanceScore = nil

	next := make([]models.Note, 0, len(s.notes))
	next = append(next, note)
	next = append(next, s.notes[:i]...)
	next = append(next, s.notes[i+1:]...)
	s.notes = next
	snapshot := models.CloneNotes(s.notes)
	s.mu.Unlock()
	s.schedule(snapshot)
	return note.Clone(), true
}

// Remove deletes the note with id. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.notes = append(s.notes[:i:i], s.notes[i+1:]...)
	snapshot := models.CloneNotes(s.notes)
	s.mu.Unlock()
	s.schedule(snapshot)
	return true
}

// AttachImage sets the image of note id in place, bumping its updatedAt.
// It applies only if the note still exists and has no image yet.
func (s *Store) AttachImage(id, imageURL string, updatedAt int64) bool {
	if imageURL == "" {
		return false
	}
	s.mu.Lock()
	i := s.index(id)
	if i < 0 || s.notes[i].ImageURL != "" {
		s.mu.Unlock()
		return false
	}
	s.notes[i].ImageURL = imageURL
	if updatedAt > s.notes[i].UpdatedAt {
		s.notes[i].UpdatedAt = updatedAt
	}
	snapshot := models.CloneNotes(s.notes)
	s.mu.Unlock()
	s.schedule(snapshot)
	return true
}

func (s *Store) index(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) schedule(snapshot []models.Note) {
	if s.persister == nil {
		return
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if s.closed {
		s.logger.Warn("store closed, dropping write", "notes", len(snapshot))
		return
	}
	s.pending = snapshot
	s.dirty = true
	s.queued++
	s.wcond.Broadcast()
}

func (s *Store) writeLoop() {
	defer close(s.stopped)
	s.wmu.Lock()
	for {
		for !s.dirty && !s.closed {
			s.wcond.Wait()
		}
		if !s.dirty && s.closed {
			s.wmu.Unlock()
			return
		}

		snapshot, seq := s.pending, s.queued
		s.pending, s.dirty = nil, false
		s.wmu.Unlock()

		if err := s.persister.SaveNotes(snapshot); err != nil {
			s.logger.Error("failed to persist notes", "error", err, "notes", len(snapshot))
		}

		s.wmu.Lock()
		s.written = seq
		s.wcond.Broadcast()
	}
}

// Flush blocks until every mutation made so far has been written.
func (s *Store) Flush() {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	target := s.queued
	for s.written < target {
		s.wcond.Wait()
	}
}

// Close flushes pending writes and stops the background writer.
func (s *Store) Close() {
	s.wmu.Lock()
	if s.closed {
		s.wmu.Unlock()
		<-s.stopped
		return
	}
	s.closed = true
	s.wcond.Broadcast()
	s.wmu.Unlock()
	<-s.stopped
}
