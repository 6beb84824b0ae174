package models

import "strings"

// View names a top-level screen of the shell. Only the current view is persisted.
type View string

const (
	ViewDashboard   View = "DASHBOARD"
	ViewVault       View = "VAULT"
	ViewCopilot     View = "COPILOT"
	ViewGraph       View = "GRAPH"
	ViewSmartLookup View = "SMART_LOOKUP"
	ViewResearchLab View = "RESEARCH_LAB"
	ViewWebImport   View = "WEB_IMPORT"
	ViewStudio      View = "STUDIO"
)

// DefaultView is shown when nothing valid was persisted.
const DefaultView = ViewDashboard

// Views lists every known view in menu order.
var Views = []View{
	ViewDashboard,
	ViewVault,
	ViewCopilot,
	ViewGraph,
	ViewSmartLookup,
	ViewResearchLab,
	ViewWebImport,
	ViewStudio,
}

// ParseView accepts view names case-insensitively, with '-' or '_' separators.
func ParseView(s string) (View, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	for _, v := range Views {
		if string(v) == s {
			return v, true
		}
	}
	return DefaultView, false
}
