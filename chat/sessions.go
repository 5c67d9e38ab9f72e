package chat

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/ragchat"
)

// SessionStore owns the session list for one user. Mutating operations are
// optimistic: local state changes first, the remote call follows, and the
// list is re-synced from the server to reconcile or roll back.
type SessionStore struct {
	api      ragchat.API
	userID   string
	schedule Scheduler

	mu       sync.Mutex
	sessions []ragchat.Session
	err      string
	toggling map[string]bool // per-session favorite-toggle in-flight guard
}

// SessionOption configures a [SessionStore].
type SessionOption func(*SessionStore)

// WithSessionScheduler sets the deferred-refresh scheduler. Tests use this
// to make background refreshes deterministic.
func WithSessionScheduler(s Scheduler) SessionOption {
	return func(st *SessionStore) { st.schedule = s }
}

// NewSessionStore creates a SessionStore for userID backed by api.
func NewSessionStore(api ragchat.API, userID string, opts ...SessionOption) *SessionStore {
	st := &SessionStore{
		api:      api,
		userID:   userID,
		schedule: defaultScheduler,
		toggling: make(map[string]bool),
	}
	for _, o := range opts {
		o(st)
	}
	return st
}

// Sessions returns a copy of the current session list.
func (s *SessionStore) Sessions() []ragchat.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ragchat.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// ByID returns the locally known session with the given ID.
func (s *SessionStore) ByID(id string) (ragchat.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return ragchat.Session{}, false
}

// Err returns the last user-visible error, or "".
func (s *SessionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearErr resets the user-visible error.
func (s *SessionStore) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// List fetches and replaces the full session set. A failure records the
// error and keeps the last known-good list.
func (s *SessionStore) List(ctx context.Context) error {
	sessions, err := s.api.Sessions(ctx, s.userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !ragchat.IsCanceled(err) {
			s.err = errMessage(err, "Failed to fetch sessions")
		}
		return err
	}
	s.err = ""
	s.sessions = sessions
	return nil
}

// Create creates an empty named session and refreshes the list.
func (s *SessionStore) Create(ctx context.Context, name string) (ragchat.Session, error) {
	if err := ragchat.ValidateSessionName(name); err != nil {
		return ragchat.Session{}, err
	}
	sess, err := s.api.CreateSession(ctx, s.userID, name)
	if err != nil {
		s.mu.Lock()
		s.err = errMessage(err, "Failed to create session")
		s.mu.Unlock()
		return ragchat.Session{}, err
	}
	_ = s.List(ctx)
	return sess, nil
}

// Prepend inserts sess at the head of the local list without a server
// round-trip. Used when a new session is created as a side effect of a
// first message; the deferred list refresh reconciles later.
func (s *SessionStore) Prepend(sess ragchat.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append([]ragchat.Session{sess}, s.sessions...)
}

// Rename sets a session's name, optimistically, reconciling from the
// server whether the remote call succeeds or fails.
func (s *SessionStore) Rename(ctx context.Context, id, newName string) error {
	if err := ragchat.ValidateSessionName(newName); err != nil {
		return err
	}
	return s.optimistic(ctx,
		func() {
			for i := range s.sessions {
				if s.sessions[i].ID == id {
					s.sessions[i].SessionName = newName
					s.sessions[i].UpdatedAt = time.Now()
				}
			}
		},
		func(ctx context.Context) error {
			_, err := s.api.UpdateSession(ctx, id, s.userID, ragchat.SessionUpdate{SessionName: &newName})
			if err != nil {
				return err
			}
			return nil
		},
		refreshAlways,
		"Failed to update session",
	)
}

// Delete removes a session, optimistically. The list is re-fetched only on
// failure, to restore the removed entry.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.optimistic(ctx,
		func() {
			kept := s.sessions[:0]
			for _, sess := range s.sessions {
				if sess.ID != id {
					kept = append(kept, sess)
				}
			}
			s.sessions = kept
		},
		func(ctx context.Context) error {
			return s.api.DeleteSession(ctx, id, s.userID)
		},
		refreshOnFailure,
		"Failed to delete session",
	)
}

// ToggleFavorite flips a session's favorite flag, optimistically. A second
// toggle for the same session while one is outstanding is suppressed;
// toggles on different sessions run unrestricted. On success the
// reconciling refresh is deferred, on failure it is immediate.
func (s *SessionStore) ToggleFavorite(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.toggling[id] {
		s.mu.Unlock()
		return nil
	}
	found := false
	for _, sess := range s.sessions {
		if sess.ID == id {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return nil
	}
	s.toggling[id] = true
	s.mu.Unlock()

	err := s.optimistic(ctx,
		func() {
			for i := range s.sessions {
				if s.sessions[i].ID == id {
					s.sessions[i].IsFavorite = !s.sessions[i].IsFavorite
					s.sessions[i].UpdatedAt = time.Now()
				}
			}
		},
		func(ctx context.Context) error {
			_, err := s.api.ToggleFavorite(ctx, id, s.userID)
			return err
		},
		refreshDeferred,
		"Failed to toggle favorite",
	)

	s.mu.Lock()
	delete(s.toggling, id)
	s.mu.Unlock()
	return err
}

// refreshMode selects when an optimistic mutation re-syncs from the server.
type refreshMode int

const (
	refreshAlways     refreshMode = iota // immediately, success or failure
	refreshDeferred                      // deferred on success, immediate on failure
	refreshOnFailure                     // only to roll back a failure
)

// optimistic is the shared shape of every mutating operation: apply the
// local mutation under lock, run the remote call, then re-sync per mode.
// The remote error, not the re-sync's, is the operation's outcome.
func (s *SessionStore) optimistic(ctx context.Context, apply func(), call func(context.Context) error, mode refreshMode, fallback string) error {
	s.mu.Lock()
	apply()
	s.mu.Unlock()

	if err := call(ctx); err != nil {
		s.mu.Lock()
		s.err = errMessage(err, fallback)
		s.mu.Unlock()
		_ = s.List(ctx)
		return err
	}

	switch mode {
	case refreshAlways:
		_ = s.List(ctx)
	case refreshDeferred:
		s.schedule(refreshDelay, func() { _ = s.List(context.Background()) })
	case refreshOnFailure:
		// Success needs no re-sync.
	}
	return nil
}
