package vault

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pders01/omnivault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIllustrator struct {
	mu      sync.Mutex
	calls   []string
	url     string
	err     error
	release chan struct{}
}

func (f *fakeIllustrator) GenerateVisual(ctx context.Context, title, content string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, title)
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.url, f.err
}

func (f *fakeIllustrator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func ptr(s string) *string { return &s }

func newManager(t *testing.T, ill Illustrator, clock func() time.Time) (*Manager, *memPersister) {
	t.Helper()
	p := &memPersister{}
	s := NewStore(p, discardLogger())
	opts := []ManagerOption{WithLogger(discardLogger())}
	if ill != nil {
		opts = append(opts, WithIllustrator(ill))
	}
	if clock != nil {
		opts = append(opts, WithClock(clock))
	}
	m := NewManager(s, opts...)
	t.Cleanup(func() {
		m.Shutdown()
		s.Close()
	})
	return m, p
}

func TestCreateShortNoteSkipsEnrichment(t *testing.T) {
	ill := &fakeIllustrator{url: "data:image/png;base64,AA=="}
	m, _ := newManager(t, ill, nil)

	note := m.CreateOrUpdate(NoteInput{Title: ptr("Alpha"), Content: ptr("short")}, nil)
	m.Wait()

	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "Alpha", note.Title)
	assert.Equal(t, "short", note.Content)
	assert.Equal(t, []string{}, note.Tags)
	assert.Empty(t, note.ImageURL)
	assert.Equal(t, 0, ill.callCount())

	stored, ok := m.Store().Get(note.ID)
	require.True(t, ok)
	assert.Empty(t, stored.ImageURL)
}

func TestCreateLongNoteIsEnriched(t *testing.T) {
	ill := &fakeIllustrator{url: "data:image/png;base64,AA==", release: make(chan struct{})}
	m, p := newManager(t, ill, nil)

	note := m.CreateOrUpdate(NoteInput{Title: ptr("Beta"), Content: ptr("this is a sufficiently long piece of content")}, nil)

	stored, ok := m.Store().Get(note.ID)
	require.True(t, ok, "synchronous save must be visible before enrichment completes")
	assert.Empty(t, stored.ImageURL)

	close(ill.release)
	m.Wait()

	stored, _ = m.Store().Get(note.ID)
	assert.Equal(t, "data:image/png;base64,AA==", stored.ImageURL)

	m.Store().Flush()
	assert.Equal(t, "data:image/png;base64,AA==", p.last()[0].ImageURL)
}

func TestUpdateAfterEnrichmentKeepsImage(t *testing.T) {
	ill := &fakeIllustrator{url: "data:image/png;base64,AA=="}
	m, _ := newManager(t, ill, nil)

	note := m.CreateOrUpdate(NoteInput{Title: ptr("Gamma"), Content: ptr("this is a sufficiently long piece of content")}, nil)
	m.Wait()
	require.Equal(t, 1, ill.callCount())

	updated, err := m.Update(note.ID, NoteInput{Title: ptr("Gamma II")})
	require.NoError(t, err)
	m.Wait()

	assert.Equal(t, "Gamma II", updated.Title)
	assert.Equal(t, "data:image/png;base64,AA==", updated.ImageURL)
	assert.Equal(t, 1, ill.callCount(), "an illustrated note is not illustrated again")
}

func TestEnrichmentAfterDeleteIsDropped(t *testing.T) {
	ill := &fakeIllustrator{url: "data:image/png;base64,AA==", release: make(chan struct{})}
	m, _ := newManager(t, ill, nil)

	other := m.CreateOrUpdate(NoteInput{Title: ptr("Keep"), Content: ptr("tiny")}, nil)
	note := m.CreateOrUpdate(NoteInput{Title: ptr("Beta"), Content: ptr("this is a sufficiently long piece of content")}, nil)
	require.True(t, m.Delete(note.ID))

	close(ill.release)
	m.Wait()

	assert.False(t, m.Store().Has(note.ID))
	assert.Equal(t, []string{other.ID}, noteIDs(m.Store().All()))
}

func TestEnrichmentFailureIsSilent(t *testing.T) {
	tests := []struct {
		name string
		ill  *fakeIllustrator
	}{
		{"error", &fakeIllustrator{err: errors.New("quota exceeded")}},
		{"no image", &fakeIllustrator{url: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newManager(t, tt.ill, nil)
			note := m.CreateOrUpdate(NoteInput{Content: ptr("this is a sufficiently long piece of content")}, nil)
			m.Wait()

			stored, ok := m.Store().Get(note.ID)
			require.True(t, ok)
			assert.Empty(t, stored.ImageURL)
			assert.Equal(t, 1, tt.ill.callCount())
		})
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	m, _ := newManager(t, nil, nil)

	note := m.CreateOrUpdate(NoteInput{}, nil)
	assert.Equal(t, models.DefaultTitle, note.Title)
	assert.Equal(t, "", note.Content)
	assert.Equal(t, []string{}, note.Tags)

	note = m.CreateOrUpdate(NoteInput{Title: ptr("   "), Tags: []string{" Mars", "mars", ""}}, nil)
	assert.Equal(t, models.DefaultTitle, note.Title)
	assert.Equal(t, []string{"mars"}, note.Tags)
}

func TestUpdatePreservesIdentityAndImage(t *testing.T) {
	ticks := int64(1000)
	clock := func() time.Time {
		ticks += 1000
		return time.UnixMilli(ticks)
	}
	m, _ := newManager(t, nil, clock)

	m.Store().ReplaceAll([]models.Note{
		{ID: "x", Title: "Old", Content: "body", Tags: []string{"a"}, ImageURL: "img", SourceURL: "https://s", UpdatedAt: 500},
		{ID: "y", Title: "Other", Tags: []string{}},
	})

	updated, err := m.Update("x", NoteInput{})
	require.NoError(t, err)
	assert.Equal(t, "x", updated.ID)
	assert.Equal(t, "Old", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.Equal(t, []string{"a"}, updated.Tags)
	assert.Equal(t, "img", updated.ImageURL)
	assert.Equal(t, "https://s", updated.SourceURL)
	assert.Greater(t, updated.UpdatedAt, int64(500))

	updated, err = m.Update("x", NoteInput{Title: ptr("New"), Tags: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, []string{}, updated.Tags)
	assert.Equal(t, "img", updated.ImageURL)

	assert.Equal(t, []string{"x", "y"}, noteIDs(m.Store().All()))
	assert.Len(t, m.Store().All(), 2)
}

func TestUpdateNeverMovesBackInTime(t *testing.T) {
	m, _ := newManager(t, nil, func() time.Time { return time.UnixMilli(100) })
	m.Store().ReplaceAll([]models.Note{{ID: "x", Title: "t", UpdatedAt: 5000}})

	updated, err := m.Update("x", NoteInput{Content: ptr("c")})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), updated.UpdatedAt)
}

func TestClearingImageReenablesEnrichment(t *testing.T) {
	ill := &fakeIllustrator{url: "fresh"}
	m, _ := newManager(t, ill, nil)
	m.Store().ReplaceAll([]models.Note{{ID: "x", Title: "t", Content: "long enough content for a picture", ImageURL: "stale"}})

	_, err := m.Update("x", NoteInput{Content: ptr("long enough content for a second picture")})
	require.NoError(t, err)
	m.Wait()
	assert.Equal(t, 0, ill.callCount(), "notes with an image are not re-illustrated")

	_, err = m.Update("x", NoteInput{ImageURL: ptr("")})
	require.NoError(t, err)
	m.Wait()

	got, _ := m.Store().Get("x")
	assert.Equal(t, "fresh", got.ImageURL)
}

func TestUpdateUnknownID(t *testing.T) {
	m, _ := newManager(t, nil, nil)
	_, err := m.Update("nope", NoteInput{})
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestDelete(t *testing.T) {
	m, _ := newManager(t, nil, nil)
	note := m.CreateOrUpdate(NoteInput{Title: ptr("a")}, nil)

	assert.True(t, m.Delete(note.ID))
	assert.False(t, m.Delete(note.ID))
	assert.Equal(t, 0, m.Store().Len())
}

func TestNewNoteIDsAreUnique(t *testing.T) {
	m, _ := newManager(t, nil, nil)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		n := m.CreateOrUpdate(NoteInput{}, nil)
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
	assert.Equal(t, 200, m.Store().Len())
}

func TestShutdownCancelsEnrichment(t *testing.T) {
	ill := &fakeIllustrator{url: "late", release: make(chan struct{})}
	m, _ := newManager(t, ill, nil)
	note := m.CreateOrUpdate(NoteInput{Content: ptr("this is a sufficiently long piece of content")}, nil)

	done := make(chan struct{})
	go func() {
		m.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not cancel enrichment")
	}
	got, _ := m.Store().Get(note.ID)
	assert.Empty(t, got.ImageURL)
}
