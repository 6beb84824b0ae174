package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseImportDraft validates a JSON import draft. Title and content must be
// non-empty and tags must be present as an array.
func ParseImportDraft(raw string) (ImportDraft, error) {
	var payload struct {
		Title   *string   `json:"title"`
		Content *string   `json:"content"`
		Tags    *[]string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(stripFence(raw)), &payload); err != nil {
		return ImportDraft{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Title == nil || strings.TrimSpace(*payload.Title) == "" {
		return ImportDraft{}, fmt.Errorf("%w: missing title", ErrMalformedResponse)
	}
	if payload.Content == nil || strings.TrimSpace(*payload.Content) == "" {
		return ImportDraft{}, fmt.Errorf("%w: missing content", ErrMalformedResponse)
	}
	if payload.Tags == nil {
		return ImportDraft{}, fmt.Errorf("%w: missing tags", ErrMalformedResponse)
	}
	return ImportDraft{
		Title:   strings.TrimSpace(*payload.Title),
		Content: *payload.Content,
		Tags:    *payload.Tags,
	}, nil
}

// ParseLookup validates a JSON smart-lookup answer.
func ParseLookup(raw string) (Lookup, error) {
	var payload struct {
		Summary     *string   `json:"summary"`
		RelevantIDs *[]string `json:"relevantIds"`
	}
	if err := json.Unmarshal([]byte(stripFence(raw)), &payload); err != nil {
		return Lookup{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Summary == nil {
		return Lookup{}, fmt.Errorf("%w: missing summary", ErrMalformedResponse)
	}
	if payload.RelevantIDs == nil {
		return Lookup{}, fmt.Errorf("%w: missing relevantIds", ErrMalformedResponse)
	}
	return Lookup{Summary: *payload.Summary, RelevantIDs: *payload.RelevantIDs}, nil
}

// stripFence removes a surrounding ```json code fence some models add.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
