package graph

import (
	"regexp"
	"strings"

	"github.com/pders01/omnivault/internal/models"
)

var titleMention = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

// LinkedNoteIDs returns the ids of notes referenced as "[id]" in text,
// in collection order.
func LinkedNoteIDs(text string, notes []models.Note) []string {
	var ids []string
	for _, n := range notes {
		if n.ID == "" {
			continue
		}
		if strings.Contains(text, "["+n.ID+"]") {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// TitleMentions extracts the titles written as [[Title]] in content,
// in order of first appearance.
func TitleMentions(content string) []string {
	var titles []string
	seen := make(map[string]bool)
	for _, m := range titleMention.FindAllStringSubmatch(content, -1) {
		title := strings.TrimSpace(m[1])
		key := strings.ToLower(title)
		if title == "" || seen[key] {
			continue
		}
		seen[key] = true
		titles = append(titles, title)
	}
	return titles
}

// ResolveMentions maps the [[Title]] mentions in content to notes.
// Titles are matched case-insensitively; unknown titles are skipped.
func ResolveMentions(content string, notes []models.Note) []models.Note {
	byTitle := make(map[string]models.Note, len(notes))
	for _, n := range notes {
		key := strings.ToLower(strings.TrimSpace(n.Title))
		if _, ok := byTitle[key]; !ok {
			byTitle[key] = n
		}
	}

	var out []models.Note
	for _, title := range TitleMentions(content) {
		if n, ok := byTitle[strings.ToLower(title)]; ok {
			out = append(out, n)
		}
	}
	return out
}
