package models

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single turn in the conversational view.
type ChatMessage struct {
	ID            string   `json:"id"`
	Role          Role     `json:"role"`
	Text          string   `json:"text"`
	Timestamp     int64    `json:"timestamp"`
	LinkedNoteIDs []string `json:"linkedNoteIds,omitempty"`
}

// Valid reports whether the message has a known role and an id.
func (m ChatMessage) Valid() bool {
	return m.ID != "" && (m.Role == RoleUser || m.Role == RoleAssistant)
}

// Time converts Timestamp into a time.Time.
func (m ChatMessage) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}
