package models

import (
	"encoding/json"
	"strings"
	"time"
)

// DefaultTitle is used when a note is created without a title.
const DefaultTitle = "Untitled Insight"

// Note is the atomic unit of knowledge stored in the vault.
type Note struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	UpdatedAt int64    `json:"updatedAt"` // milliseconds since epoch
	SourceURL string   `json:"sourceUrl,omitempty"`
	ImageURL  string   `json:"imageUrl,omitempty"`

	// RelevanceScore is attached to search results only and never persisted.
	RelevanceScore *float64 `json:"-"`
}

// Clone returns a deep copy of the note.
func (n Note) Clone() Note {
	out := n
	out.Tags = append([]string{}, n.Tags...)
	if n.RelevanceScore != nil {
		score := *n.RelevanceScore
		out.RelevanceScore = &score
	}
	return out
}

// MarshalJSON writes tags as an array even when the note has none.
func (n Note) MarshalJSON() ([]byte, error) {
	type plain Note
	p := plain(n)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return json.Marshal(p)
}

// UpdatedTime converts UpdatedAt into a time.Time.
func (n Note) UpdatedTime() time.Time {
	return time.UnixMilli(n.UpdatedAt)
}

// HasTag reports whether the note carries the given tag (case-insensitive).
func (n Note) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// WithRelevance returns a copy of the note carrying the given relevance score.
func (n Note) WithRelevance(score float64) Note {
	out := n.Clone()
	out.RelevanceScore = &score
	return out
}

// NormalizeTags trims and lower-cases tags, dropping empty entries and
// duplicates while keeping first-occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// CloneNotes deep-copies a slice of notes.
func CloneNotes(notes []Note) []Note {
	if notes == nil {
		return nil
	}
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

