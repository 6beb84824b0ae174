package models

// Source is a web reference backing a grounded research result.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// GroundedResult is a research report plus the sources it cites.
type GroundedResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}
