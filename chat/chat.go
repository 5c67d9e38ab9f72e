// Package chat holds the client-side state layer: the session store and the
// conversation store. Both reconcile optimistic local edits against the
// backend's eventually-consistent truth: apply the mutation locally for
// zero-latency UI, issue the remote call, then re-sync from the server —
// on success and on failure alike.
package chat

import (
	"errors"
	"time"

	"github.com/fwojciec/ragchat"
)

// Deferred refresh delays, matching the backend client's observed cadence.
// Deferred refreshes are unsupervised background tasks: their ordering
// relative to the triggering operation is not guaranteed, only eventual
// consistency, and their failures never surface to the caller.
const (
	refreshDelay        = 100 * time.Millisecond
	newChatRefreshDelay = 500 * time.Millisecond
)

// Scheduler runs fn after d. The default implementation is time.AfterFunc;
// tests substitute a synchronous or manual one.
type Scheduler func(d time.Duration, fn func())

func defaultScheduler(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// errMessage extracts a user-visible message from a remote-call failure:
// the server's own message when present, else the given fallback.
func errMessage(err error, fallback string) string {
	var serr *ragchat.ServerError
	if errors.As(err, &serr) && serr.Message != "" {
		return serr.Message
	}
	return fallback
}
