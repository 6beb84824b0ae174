package assistant

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/embeddings"
	"github.com/pders01/omnivault/internal/models"
	"github.com/pders01/omnivault/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend unavailable")

func note(id, title, content string, updatedAt int64, tags ...string) models.Note {
	return models.Note{ID: id, Title: title, Content: content, Tags: tags, UpdatedAt: updatedAt}
}

func TestVaultContext(t *testing.T) {
	got := VaultContext([]models.Note{
		note("a", "Alpha", "first", 1),
		note("b", "Beta", "second", 2),
	})
	assert.Equal(t, "ID: a TITLE: Alpha CONTENT: first\n---\nID: b TITLE: Beta CONTENT: second", got)
	assert.Empty(t, VaultContext(nil))
}

func TestCopilotLinksExistingNotes(t *testing.T) {
	tests := []struct {
		name  string
		notes []models.Note
		want  []string
	}{
		{
			name:  "cited note exists",
			notes: []models.Note{note("note_123", "Mars", "red planet", 1)},
			want:  []string{"note_123"},
		},
		{
			name:  "cited note missing",
			notes: []models.Note{note("note_456", "Venus", "hot planet", 1)},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := testutil.NewVault(t, tt.notes)
			fake := &testutil.FakeAI{Reply: []string{"See ", "[note_123]", " for details"}}
			c := NewCopilot(fake, v.Store, v.Adapter, testutil.DiscardLogger())

			var chunks []string
			msg, err := c.Send(context.Background(), "what about mars?", func(s string) { chunks = append(chunks, s) })
			require.NoError(t, err)

			assert.Equal(t, models.RoleAssistant, msg.Role)
			assert.Equal(t, "See [note_123] for details", msg.Text)
			assert.Equal(t, tt.want, msg.LinkedNoteIDs)
			assert.Equal(t, fake.Reply, chunks)
		})
	}
}

func TestCopilotHistoryPersists(t *testing.T) {
	v := testutil.NewVault(t, []models.Note{note("n1", "Mars", "red planet", 1)})
	fake := &testutil.FakeAI{Reply: []string{"hello"}}

	c := NewCopilot(fake, v.Store, v.Adapter, testutil.DiscardLogger())
	_, err := c.Send(context.Background(), "first", nil)
	require.NoError(t, err)
	_, err = c.Send(context.Background(), "second", nil)
	require.NoError(t, err)

	// The second request carries the first exchange as history.
	require.Len(t, fake.Last.History, 2)
	assert.Equal(t, "first", fake.Last.History[0].Text)
	assert.Equal(t, "second", fake.Last.Message)
	assert.Len(t, fake.Last.Notes, 1)

	reopened := NewCopilot(fake, v.Store, v.Adapter, testutil.DiscardLogger())
	history := reopened.History()
	require.Len(t, history, 4)
	assert.Equal(t, models.RoleUser, history[2].Role)
	assert.Equal(t, "second", history[2].Text)

	require.NoError(t, reopened.Clear())
	assert.Empty(t, reopened.History())
	assert.Empty(t, v.Adapter.LoadChatHistory())
}

func TestCopilotFallbackOnError(t *testing.T) {
	v := testutil.NewVault(t, nil)
	fake := &testutil.FakeAI{Err: errBackend}
	c := NewCopilot(fake, v.Store, v.Adapter, testutil.DiscardLogger())

	msg, err := c.Send(context.Background(), "hello", nil)
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, FallbackReply, msg.Text)

	history := c.History()
	require.Len(t, history, 2)
	assert.Equal(t, "hello", history[0].Text)
	assert.Equal(t, FallbackReply, history[1].Text)
}

func TestCopilotRejectsBlankInput(t *testing.T) {
	v := testutil.NewVault(t, nil)
	fake := &testutil.FakeAI{}
	c := NewCopilot(fake, v.Store, v.Adapter, testutil.DiscardLogger())

	_, err := c.Send(context.Background(), "   ", nil)
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, c.History())
	assert.Zero(t, fake.CallCount("chat"))
}

func TestImporterCreatesNote(t *testing.T) {
	v := testutil.NewVault(t, nil)
	fake := &testutil.FakeAI{Draft: ai.ImportDraft{
		Title:   "Fusion Milestone",
		Content: "Net energy gain achieved.",
		Tags:    []string{"Energy", "physics"},
	}}
	imp := NewImporter(fake, v.Manager, v.Adapter, testutil.DiscardLogger())

	n, err := imp.Import(context.Background(), "Read https://example.com/fusion. It is big news.")
	require.NoError(t, err)

	assert.Equal(t, "Fusion Milestone", n.Title)
	assert.Equal(t, []string{"energy", "physics"}, n.Tags)
	assert.Equal(t, "https://example.com/fusion", n.SourceURL)
	assert.True(t, v.Store.Has(n.ID))
	assert.Empty(t, imp.Draft())
}

func TestImporterKeepsDraftOnFailure(t *testing.T) {
	v := testutil.NewVault(t, nil)
	fake := &testutil.FakeAI{Err: errBackend}
	imp := NewImporter(fake, v.Manager, v.Adapter, testutil.DiscardLogger())

	_, err := imp.Import(context.Background(), "some pasted article")
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, "some pasted article", imp.Draft())
	assert.Zero(t, v.Store.Len())

	_, err = imp.Import(context.Background(), " \n")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestSourceURL(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"no links here", ""},
		{"see https://go.dev/doc.", "https://go.dev/doc"},
		{"(http://a.example/x)", ""},
		{"first HTTP://A.example then https://b.example", "HTTP://A.example"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceURL(tt.text))
		})
	}
}

func TestResearchLab(t *testing.T) {
	v := testutil.NewVault(t, []models.Note{note("n1", "Mars", "red planet", 1)})
	fake := &testutil.FakeAI{Result: models.GroundedResult{
		Text:    "Mars has a thin atmosphere.",
		Sources: []models.Source{{Title: "NASA", URI: "https://nasa.gov/mars"}},
	}}
	lab := NewResearchLab(fake, v.Manager, v.Adapter, testutil.DiscardLogger())

	res, err := lab.Research(context.Background(), "  mars atmosphere ")
	require.NoError(t, err)
	assert.Equal(t, fake.Result, res)

	q, last, ok := lab.Last()
	require.True(t, ok)
	assert.Equal(t, "mars atmosphere", q)
	assert.Equal(t, fake.Result, last)

	report := lab.ImportReport(q, last)
	assert.Equal(t, "Research: mars atmosphere", report.Title)
	assert.Equal(t, []string{"research", "ai-synthesis"}, report.Tags)

	src := lab.ImportSource(q, last.Sources[0])
	assert.Equal(t, "NASA", src.Title)
	assert.Equal(t, "https://nasa.gov/mars", src.SourceURL)
	assert.Equal(t, "Source: https://nasa.gov/mars\n\nAbstracted from Research Lab session regarding: mars atmosphere", src.Content)
	assert.Equal(t, []string{"research-source"}, src.Tags)
	assert.Equal(t, 3, v.Store.Len())

	require.NoError(t, lab.Clear())
	_, _, ok = lab.Last()
	assert.False(t, ok)
}

func TestResearchLabErrors(t *testing.T) {
	v := testutil.NewVault(t, nil)
	lab := NewResearchLab(&testutil.FakeAI{Err: errBackend}, v.Manager, v.Adapter, testutil.DiscardLogger())

	_, err := lab.Research(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = lab.Research(context.Background(), "anything")
	assert.ErrorIs(t, err, errBackend)
	_, _, ok := lab.Last()
	assert.False(t, ok)
}

func TestLookupAI(t *testing.T) {
	notes := []models.Note{
		note("n1", "Mars", "red planet", 3),
		note("n2", "Pasta", "cooking", 2),
		note("n3", "Venus", "hot planet", 1),
	}
	v := testutil.NewVault(t, notes)
	fake := &testutil.FakeAI{Lookup: ai.Lookup{Summary: "Two planets.", RelevantIDs: []string{"n3", "n1", "gone"}}}
	l := NewLookup(v.Store, fake, nil, 0, testutil.DiscardLogger())

	res, err := l.Search(context.Background(), "planets")
	require.NoError(t, err)

	assert.Equal(t, ModeAI, res.Mode)
	assert.Equal(t, "Two planets.", res.Summary)
	require.Len(t, res.Notes, 2)
	assert.Equal(t, "n1", res.Notes[0].ID)
	assert.Equal(t, "n3", res.Notes[1].ID)
	for _, n := range res.Notes {
		require.NotNil(t, n.RelevanceScore)
		assert.Equal(t, AIRelevance, *n.RelevanceScore)
	}

	// Scores are never written back to the store.
	stored, ok := v.Store.Get("n1")
	require.True(t, ok)
	assert.Nil(t, stored.RelevanceScore)
}

func TestLookupFailure(t *testing.T) {
	v := testutil.NewVault(t, []models.Note{note("n1", "Mars", "red planet", 1)})
	l := NewLookup(v.Store, &testutil.FakeAI{Err: errBackend}, nil, 0, testutil.DiscardLogger())

	res, err := l.Search(context.Background(), "planets")
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, SearchFailedSummary, res.Summary)
	assert.Empty(t, res.Notes)

	_, err = l.Search(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestLookupSemantic(t *testing.T) {
	notes := []models.Note{
		note("n1", "Mars Habitat", "domes on the surface", 2),
		note("n2", "Pasta", "boil water", 1),
	}
	v := testutil.NewVault(t, notes)
	embedder := &testutil.FakeAI{Vectors: map[string][]float64{
		"Mars":  {1, 0, 0, 0},
		"Pasta": {0, 1, 0, 0},
	}}
	cache := embeddings.NewCache(v.KV, embedder, testutil.DiscardLogger(), 2)
	searcher := &testutil.FakeAI{}
	l := NewLookup(v.Store, searcher, cache, 5, testutil.DiscardLogger())

	res, err := l.Search(context.Background(), "Mars")
	require.NoError(t, err)
	assert.Equal(t, ModeSemantic, res.Mode)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, "n1", res.Notes[0].ID)
	require.NotNil(t, res.Notes[0].RelevanceScore)
	assert.InDelta(t, 1.0, *res.Notes[0].RelevanceScore, 1e-6)
	assert.Zero(t, searcher.CallCount("lookup"))

	// A second search reuses the cached note embeddings.
	before := embedder.CallCount("embed")
	_, err = l.Search(context.Background(), "Mars")
	require.NoError(t, err)
	assert.Equal(t, before+1, embedder.CallCount("embed"))
}

func TestLookupSemanticFallsBackToAI(t *testing.T) {
	v := testutil.NewVault(t, []models.Note{note("n1", "Mars", "red planet", 1)})
	cache := embeddings.NewCache(v.KV, &testutil.FakeAI{Err: errBackend}, testutil.DiscardLogger(), 1)
	searcher := &testutil.FakeAI{Lookup: ai.Lookup{Summary: "One.", RelevantIDs: []string{"n1"}}}
	l := NewLookup(v.Store, searcher, cache, 5, testutil.DiscardLogger())

	res, err := l.Search(context.Background(), "mars")
	require.NoError(t, err)
	assert.Equal(t, ModeAI, res.Mode)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, 1, searcher.CallCount("lookup"))
}

func TestStudioBriefing(t *testing.T) {
	notes := []models.Note{
		note("n1", "One", "a", 4),
		note("n2", "Two", "b", 3),
		note("n3", "Three", "c", 2),
		note("n4", "Four", "d", 1),
	}
	v := testutil.NewVault(t, notes)
	pcm := []byte{1, 2, 3, 4}
	fake := &testutil.FakeAI{PCM: pcm}

	wav, err := NewStudio(fake, v.Store).Briefing(context.Background())
	require.NoError(t, err)
	require.Len(t, wav, 44+len(pcm))
	assert.Equal(t, "RIFF", string(wav[:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
	assert.Equal(t, 1, fake.CallCount("briefing"))
}

func TestStudioErrors(t *testing.T) {
	empty := testutil.NewVault(t, nil)
	_, err := NewStudio(&testutil.FakeAI{}, empty.Store).Briefing(context.Background())
	assert.ErrorIs(t, err, ErrEmptyVault)

	v := testutil.NewVault(t, []models.Note{note("n1", "One", "a", 1)})
	_, err = NewStudio(&testutil.FakeAI{Err: errBackend}, v.Store).Briefing(context.Background())
	assert.ErrorIs(t, err, errBackend)
}
