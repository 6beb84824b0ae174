// Package graph ranks notes by how closely they relate to each other and
// detects note references inside free text.
package graph

import (
	"sort"
	"strings"

	"github.com/pders01/omnivault/internal/models"
)

const (
	// MaxRelated bounds the number of notes returned by Related.
	MaxRelated = 3

	tagWeight         = 2.0
	titleWordWeight   = 1.5
	containmentWeight = 1.0

	// Title words must be strictly longer than this to count.
	minTitleWordLen = 3
)

// Scored pairs a note with its relatedness score.
type Scored struct {
	Note  models.Note `json:"note"`
	Score float64     `json:"score"`
}

// Score computes how related other is to active. It does not check ids.
func Score(active, other models.Note) float64 {
	score := 0.0

	shared := 0
	for _, tag := range active.Tags {
		if contains(other.Tags, tag) {
			shared++
		}
	}
	score += tagWeight * float64(shared)

	otherWords := strings.Fields(strings.ToLower(other.Title))
	words := 0
	for _, w := range strings.Fields(strings.ToLower(active.Title)) {
		if len(w) > minTitleWordLen && contains(otherWords, w) {
			words++
		}
	}
	score += titleWordWeight * float64(words)

	if strings.Contains(strings.ToLower(other.Content), strings.ToLower(active.Title)) {
		score += containmentWeight
	}

	return score
}

// RelatedScored returns up to MaxRelated notes ranked by Score, highest first.
// Notes scoring zero or less are dropped and ties keep collection order.
func RelatedScored(active models.Note, notes []models.Note) []Scored {
	var ranked []Scored
	for _, n := range notes {
		if n.ID == active.ID {
			continue
		}
		s := Score(active, n)
		if s <= 0 {
			continue
		}
		ranked = append(ranked, Scored{Note: n, Score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > MaxRelated {
		ranked = ranked[:MaxRelated]
	}
	return ranked
}

// Related returns the notes most related to active, without their scores.
func Related(active models.Note, notes []models.Note) []models.Note {
	ranked := RelatedScored(active, notes)
	out := make([]models.Note, len(ranked))
	for i, r := range ranked {
		out[i] = r.Note
	}
	return out
}

// Edge links a note to one of its related notes.
type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Score float64 `json:"score"`
}

// Edges computes the related-note edges for every note in the collection.
func Edges(notes []models.Note) []Edge {
	var edges []Edge
	for _, n := range notes {
		for _, r := range RelatedScored(n, notes) {
			edges = append(edges, Edge{From: n.ID, To: r.Note.ID, Score: r.Score})
		}
	}
	return edges
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
