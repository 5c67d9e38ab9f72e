// Package mock provides test doubles for ragchat interfaces using function
// fields.
package mock

import (
	"context"

	"github.com/fwojciec/ragchat"
)

// Interface compliance check.
var _ ragchat.API = (*API)(nil)

// API is a test double for ragchat.API.
// Set the function fields for the methods you need.
type API struct {
	SessionsFn       func(ctx context.Context, userID string) ([]ragchat.Session, error)
	CreateSessionFn  func(ctx context.Context, userID, sessionName string) (ragchat.Session, error)
	SessionFn        func(ctx context.Context, sessionID, userID string) (ragchat.Session, error)
	UpdateSessionFn  func(ctx context.Context, sessionID, userID string, upd ragchat.SessionUpdate) (ragchat.Session, error)
	DeleteSessionFn  func(ctx context.Context, sessionID, userID string) error
	ToggleFavoriteFn func(ctx context.Context, sessionID, userID string) (ragchat.Session, error)
	MessagesFn       func(ctx context.Context, sessionID, userID string, page, size int) ([]ragchat.Message, error)
	DeleteMessageFn  func(ctx context.Context, sessionID, messageID, userID string) error
	ChatFn           func(ctx context.Context, sessionID, userID, message string) (ragchat.Message, error)
	NewChatFn        func(ctx context.Context, userID, message, title string) (ragchat.Session, error)
	StatusFn         func(ctx context.Context) (ragchat.ServiceStatus, error)
}

// Sessions delegates to SessionsFn.
func (a *API) Sessions(ctx context.Context, userID string) ([]ragchat.Session, error) {
	return a.SessionsFn(ctx, userID)
}

// CreateSession delegates to CreateSessionFn.
func (a *API) CreateSession(ctx context.Context, userID, sessionName string) (ragchat.Session, error) {
	return a.CreateSessionFn(ctx, userID, sessionName)
}

// Session delegates to SessionFn.
func (a *API) Session(ctx context.Context, sessionID, userID string) (ragchat.Session, error) {
	return a.SessionFn(ctx, sessionID, userID)
}

// UpdateSession delegates to UpdateSessionFn.
func (a *API) UpdateSession(ctx context.Context, sessionID, userID string, upd ragchat.SessionUpdate) (ragchat.Session, error) {
	return a.UpdateSessionFn(ctx, sessionID, userID, upd)
}

// DeleteSession delegates to DeleteSessionFn.
func (a *API) DeleteSession(ctx context.Context, sessionID, userID string) error {
	return a.DeleteSessionFn(ctx, sessionID, userID)
}

// ToggleFavorite delegates to ToggleFavoriteFn.
func (a *API) ToggleFavorite(ctx context.Context, sessionID, userID string) (ragchat.Session, error) {
	return a.ToggleFavoriteFn(ctx, sessionID, userID)
}

// Messages delegates to MessagesFn.
func (a *API) Messages(ctx context.Context, sessionID, userID string, page, size int) ([]ragchat.Message, error) {
	return a.MessagesFn(ctx, sessionID, userID, page, size)
}

// DeleteMessage delegates to DeleteMessageFn.
func (a *API) DeleteMessage(ctx context.Context, sessionID, messageID, userID string) error {
	return a.DeleteMessageFn(ctx, sessionID, messageID, userID)
}

// Chat delegates to ChatFn.
func (a *API) Chat(ctx context.Context, sessionID, userID, message string) (ragchat.Message, error) {
	return a.ChatFn(ctx, sessionID, userID, message)
}

// NewChat delegates to NewChatFn.
func (a *API) NewChat(ctx context.Context, userID, message, title string) (ragchat.Session, error) {
	return a.NewChatFn(ctx, userID, message, title)
}

// Status delegates to StatusFn.
func (a *API) Status(ctx context.Context) (ragchat.ServiceStatus, error) {
	return a.StatusFn(ctx)
}
