package ragchat

import "time"

// Message represents a single conversation message.
//
// IsTemp marks a client-synthesized placeholder shown optimistically while
// the server round-trip is outstanding. Temp messages only ever appear at
// the tail of a message list and are never persisted: a successful send
// replaces them with the authoritative reload, a failed send removes them.
type Message struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	SenderType SenderType `json:"senderType"`
	CreatedAt  time.Time  `json:"createdAt"`
	SessionID  string     `json:"sessionId"`
	IsTemp     bool       `json:"isTemp,omitempty"`
}
