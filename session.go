package ragchat

import "time"

// Session represents a named conversation thread owned by a user.
type Session struct {
	ID           string    `json:"id"`
	SessionName  string    `json:"sessionName"`
	IsFavorite   bool      `json:"isFavorite"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
	LastMessage  string    `json:"lastMessage"`
}

// SessionUpdate carries the mutable fields of a session for update calls.
// Nil fields are left unchanged by the backend.
type SessionUpdate struct {
	SessionName *string `json:"sessionName,omitempty"`
	IsFavorite  *bool   `json:"isFavorite,omitempty"`
}
