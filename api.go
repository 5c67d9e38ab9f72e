package ragchat

import "context"

// API is the client-side contract for the RAG chat backend. Every method
// takes the acting user's ID as an explicit parameter; there is no implicit
// or global identity. Implementations normalize the backend's envelope
// shapes before returning, so callers always see flat payloads.
type API interface {
	// Sessions lists all sessions for a user.
	Sessions(ctx context.Context, userID string) ([]Session, error)

	// CreateSession creates an empty session with the given name.
	CreateSession(ctx context.Context, userID, sessionName string) (Session, error)

	// Session fetches a single session by ID.
	Session(ctx context.Context, sessionID, userID string) (Session, error)

	// UpdateSession applies upd to the session and returns the result.
	UpdateSession(ctx context.Context, sessionID, userID string, upd SessionUpdate) (Session, error)

	// DeleteSession removes a session and all of its messages.
	DeleteSession(ctx context.Context, sessionID, userID string) error

	// ToggleFavorite flips the session's favorite flag server-side.
	ToggleFavorite(ctx context.Context, sessionID, userID string) (Session, error)

	// Messages lists a session's messages, paged. The backend orders by
	// server-assigned timestamps.
	Messages(ctx context.Context, sessionID, userID string, page, size int) ([]Message, error)

	// DeleteMessage removes a single message from a session.
	DeleteMessage(ctx context.Context, sessionID, messageID, userID string) error

	// Chat runs an assistant turn on an existing session: the backend
	// persists the user message, generates the assistant reply, and
	// persists that too. The returned message is best-effort; callers
	// reload the session's messages for the authoritative pair.
	Chat(ctx context.Context, sessionID, userID, message string) (Message, error)

	// NewChat creates a session titled title and runs the first assistant
	// turn with message, returning the new session.
	NewChat(ctx context.Context, userID, message, title string) (Session, error)

	// Status probes the assistant service's health.
	Status(ctx context.Context) (ServiceStatus, error)
}

// ServiceStatus describes the assistant service's availability.
type ServiceStatus struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
}
