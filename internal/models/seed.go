package models

import "time"

// SeedNotes returns the default collection used when no saved notes exist.
func SeedNotes(now time.Time) []Note {
	ago := func(h int) int64 {
		return now.Add(-time.Duration(h) * time.Hour).UnixMilli()
	}
	return []Note{
		{
			ID:        "1",
			Title:     "Project Phoenix Overview",
			Content:   "An initiative to build a sustainable habitat on Mars. Research covers atmospheric conversion, radiation shielding, and soil fertilization.",
			Tags:      []string{"space", "mars", "habitat"},
			UpdatedAt: ago(2),
		},
		{
			ID:        "2",
			Title:     "Character: Elias Thorne",
			Content:   "The protagonist of the story. Age 32. Former orbital mechanic. Known for a quick temper and high technical aptitude. Fought the Ion Stalkers in Chapter 3.",
			Tags:      []string{"novel", "character"},
			UpdatedAt: ago(24),
		},
		{
			ID:        "3",
			Title:     "Atmospheric Conversion Notes",
			Content:   "Focusing on CO2 to O2 conversion using cyanobacteria. Challenges: temperature control and sunlight availability.",
			Tags:      []string{"science", "mars"},
			UpdatedAt: ago(48),
		},
		{
			ID:        "4",
			Title:     "The Ion Stalkers",
			Content:   "Bioluminescent predators native to the asteroid belts. Highly sensitive to heat. Defeated by Elias using an EMP pulse.",
			Tags:      []string{"novel", "lore", "monsters"},
			UpdatedAt: ago(72),
		},
	}
}
