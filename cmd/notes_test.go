package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/pders01/omnivault/internal/models"
)

func resetAddFlags() {
	addTitle, addContent, addSourceURL = "", "", ""
	addTags = []string{}
	addNoEnrich, addJSON = false, false
}

func resetEditFlags() {
	editTitle, editContent, editSourceURL = "", "", ""
	editTags = nil
	editClearImage = false
}

func TestAddEditDelete(t *testing.T) {
	setupVault(t, nil)
	resetAddFlags()
	defer resetAddFlags()

	addTitle = "  Mars Habitat "
	addTags = []string{"Space", "mars", "space"}
	addSourceURL = "https://example.com/mars"
	if err := runAdd(nil, []string{"Domes", "on", "Mars"}); err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	notes := storedNotes(t)
	if len(notes) != len(models.SeedNotes(time.Now()))+1 {
		t.Fatalf("expected seed notes plus one, got %d", len(notes))
	}
	added := notes[0]
	if added.Title != "Mars Habitat" {
		t.Errorf("expected trimmed title, got %q", added.Title)
	}
	if added.Content != "Domes on Mars" {
		t.Errorf("unexpected content %q", added.Content)
	}
	if strings.Join(added.Tags, ",") != "space,mars" {
		t.Errorf("expected normalized tags, got %v", added.Tags)
	}
	if added.SourceURL != "https://example.com/mars" {
		t.Errorf("unexpected source url %q", added.SourceURL)
	}

	resetEditFlags()
	defer resetEditFlags()
	editContent = "Domes and tunnels on Mars"
	if err := runEdit(nil, []string{added.ID}); err != nil {
		t.Fatalf("edit command failed: %v", err)
	}

	edited, ok := findNote(storedNotes(t), added.ID)
	if !ok {
		t.Fatal("edited note missing")
	}
	if edited.Title != "Mars Habitat" || edited.Content != "Domes and tunnels on Mars" {
		t.Errorf("edit changed the wrong fields: %+v", edited)
	}
	if edited.UpdatedAt < added.UpdatedAt {
		t.Error("updatedAt moved backwards")
	}

	if err := runDelete(nil, []string{added.ID}); err != nil {
		t.Fatalf("delete command failed: %v", err)
	}
	if _, ok := findNote(storedNotes(t), added.ID); ok {
		t.Error("note still present after delete")
	}

	if err := runDelete(nil, []string{added.ID}); err == nil {
		t.Error("expected error deleting a missing note")
	}
}

func TestAddRequiresInput(t *testing.T) {
	setupVault(t, nil)
	resetAddFlags()

	if err := runAdd(nil, []string{}); err == nil {
		t.Error("expected error for empty note")
	}
}

func TestEditMissingNote(t *testing.T) {
	setupVault(t, nil)
	resetEditFlags()
	editTitle = "x"
	defer resetEditFlags()

	err := runEdit(nil, []string{"missing"})
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("expected missing note error, got %v", err)
	}
}

func TestFilterNotes(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	notes := []models.Note{
		{ID: "a", Tags: []string{"space"}, UpdatedAt: now.Add(-time.Hour).UnixMilli()},
		{ID: "b", Tags: []string{"novel"}, UpdatedAt: now.AddDate(0, 0, -3).UnixMilli()},
		{ID: "c", Tags: []string{"space"}, UpdatedAt: now.AddDate(0, 0, -30).UnixMilli()},
	}

	tests := []struct {
		name  string
		tag   string
		today bool
		since string
		want  string
	}{
		{"no filter", "", false, "", "a,b,c"},
		{"tag", "SPACE", false, "", "a,c"},
		{"today", "", true, "", "a"},
		{"since", "", false, "2025-06-01", "a,b"},
		{"tag and since", "space", false, "2025-06-01", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filterNotes(notes, tt.tag, tt.today, tt.since, now)
			if err != nil {
				t.Fatalf("filterNotes failed: %v", err)
			}
			var ids []string
			for _, n := range got {
				ids = append(ids, n.ID)
			}
			if strings.Join(ids, ",") != tt.want {
				t.Errorf("got %v, want %s", ids, tt.want)
			}
		})
	}

	if _, err := filterNotes(notes, "", false, "10/06/2025", now); err == nil {
		t.Error("expected error for invalid --since date")
	}
}

func TestListCommand(t *testing.T) {
	setupVault(t, nil)
	listTag, listSince, listGroupBy = "", "", ""
	listToday, listJSON, listToon = false, false, false
	listLimit = 0

	if err := runList(nil, []string{}); err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	listTag = "mars"
	listGroupBy = "tag"
	listJSON = true
	defer func() { listTag, listGroupBy, listJSON = "", "", false }()
	if err := runList(nil, []string{}); err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	listSince = "not-a-date"
	defer func() { listSince = "" }()
	if err := runList(nil, []string{}); err == nil {
		t.Error("expected error for invalid --since")
	}
}

func TestShowAndRelated(t *testing.T) {
	setupVault(t, nil)
	showJSON, relatedJSON = false, false

	// Seed note 1 (space, mars) and 3 (science, mars) share a tag.
	if err := runShow(nil, []string{"1"}); err != nil {
		t.Fatalf("show command failed: %v", err)
	}
	relatedScores = true
	defer func() { relatedScores = false }()
	if err := runRelated(nil, []string{"1"}); err != nil {
		t.Fatalf("related command failed: %v", err)
	}
	if err := runGraph(nil, []string{}); err != nil {
		t.Fatalf("graph command failed: %v", err)
	}

	if err := runShow(nil, []string{"missing"}); err == nil {
		t.Error("expected error for missing note")
	}
	if err := runRelated(nil, []string{"missing"}); err == nil {
		t.Error("expected error for missing note")
	}
}

func TestTagsRename(t *testing.T) {
	setupVault(t, nil)
	tagsRename = "red-planet"
	defer func() { tagsRename = "" }()

	if err := runTags(nil, []string{"mars"}); err != nil {
		t.Fatalf("tags command failed: %v", err)
	}

	for _, n := range storedNotes(t) {
		if n.HasTag("mars") {
			t.Errorf("note %s still tagged mars", n.ID)
		}
	}
	renamed := 0
	for _, c := range countTags(storedNotes(t)) {
		if c.Tag == "red-planet" {
			renamed = c.Count
		}
	}
	if renamed != 2 {
		t.Errorf("expected red-planet on 2 notes, got %d", renamed)
	}

	if err := runTags(nil, []string{}); err == nil {
		t.Error("expected error for --rename without a tag")
	}
}

func TestCollectStats(t *testing.T) {
	day := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	notes := []models.Note{
		{ID: "a", Tags: []string{"x"}, ImageURL: "data:image/png;base64,AA", UpdatedAt: day.UnixMilli()},
		{ID: "b", Tags: []string{"x", "y"}, SourceURL: "https://example.com", UpdatedAt: day.UnixMilli()},
		{ID: "c", UpdatedAt: day.AddDate(0, 0, -1).UnixMilli()},
	}

	stats := collectStats(notes)
	if stats.TotalNotes != 3 || stats.WithImages != 1 || stats.WithoutImages != 2 {
		t.Errorf("unexpected coverage: %+v", stats)
	}
	if stats.WithSources != 1 || stats.Untagged != 1 {
		t.Errorf("unexpected sources/untagged: %+v", stats)
	}
	if len(stats.TopTags) != 2 || stats.TopTags[0].Tag != "x" {
		t.Errorf("unexpected top tags: %+v", stats.TopTags)
	}
	if len(stats.DailyActivity) != 2 || stats.DailyActivity[0].Count != 2 {
		t.Errorf("unexpected daily activity: %+v", stats.DailyActivity)
	}

	statsJSON = false
	setupVault(t, nil)
	if err := runStats(nil, []string{}); err != nil {
		t.Fatalf("stats command failed: %v", err)
	}
	if err := runReport(nil, []string{"daily"}); err != nil {
		t.Fatalf("report command failed: %v", err)
	}
	if err := runReport(nil, []string{"weekly"}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestViewCommand(t *testing.T) {
	setupVault(t, nil)

	if err := runView(nil, []string{"smart-lookup"}); err != nil {
		t.Fatalf("view command failed: %v", err)
	}
	adapter, done := openAdapter(t)
	defer done()
	if got := adapter.LoadView(); got != models.ViewSmartLookup {
		t.Errorf("expected SMART_LOOKUP, got %s", got)
	}

	if err := runView(nil, []string{"nowhere"}); err == nil {
		t.Error("expected error for unknown view")
	}
	if err := runView(nil, []string{}); err != nil {
		t.Fatalf("view command failed: %v", err)
	}
}
