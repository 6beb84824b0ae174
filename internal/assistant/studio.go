package assistant

import (
	"context"
	"fmt"

	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/audio"
	"github.com/pders01/omnivault/internal/vault"
)

// BriefingNotes is how many of the most recent notes a briefing covers.
const BriefingNotes = 3

// Studio synthesizes audio briefings of recent notes.
type Studio struct {
	narrator ai.Narrator
	store    *vault.Store
}

// NewStudio creates a Studio.
func NewStudio(narrator ai.Narrator, store *vault.Store) *Studio {
	return &Studio{narrator: narrator, store: store}
}

// Briefing returns a WAV recording covering the most recent notes.
func (s *Studio) Briefing(ctx context.Context) ([]byte, error) {
	notes := s.store.All()
	if len(notes) == 0 {
		return nil, ErrEmptyVault
	}
	if len(notes) > BriefingNotes {
		notes = notes[:BriefingNotes]
	}

	pcm, err := s.narrator.SynthesizeBriefing(ctx, notes)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize briefing: %w", err)
	}
	return audio.PCMToWAV(pcm, audio.DefaultSampleRate), nil
}
