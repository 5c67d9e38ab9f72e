// Package websocket streams backend service-status updates over a
// websocket connection, reconnecting with exponential backoff.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coder/websocket"

	"github.com/fwojciec/ragchat"
)

// Reconnect policy: exponential backoff from baseDelay, capped at maxDelay,
// giving up after maxAttempts consecutive failures. A successful connection
// resets the attempt count.
const (
	baseDelay   = time.Second
	maxDelay    = 30 * time.Second
	maxAttempts = 5
)

// Handler receives each decoded status update.
type Handler func(ragchat.ServiceStatus)

// Listener maintains a websocket subscription to the status feed.
type Listener struct {
	url     string
	handler Handler

	base     time.Duration
	max      time.Duration
	attempts int
}

// Option configures a [Listener].
type Option func(*Listener)

// WithBackoff overrides the reconnect delays. Tests use this to avoid
// real waits.
func WithBackoff(base, max time.Duration) Option {
	return func(l *Listener) {
		l.base = base
		l.max = max
	}
}

// WithMaxAttempts overrides the consecutive-failure limit.
func WithMaxAttempts(n int) Option {
	return func(l *Listener) { l.attempts = n }
}

// NewListener creates a Listener for url that delivers updates to handler.
func NewListener(url string, handler Handler, opts ...Option) *Listener {
	l := &Listener{
		url:      url,
		handler:  handler,
		base:     baseDelay,
		max:      maxDelay,
		attempts: maxAttempts,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Run connects and delivers status updates until ctx is canceled or the
// failure limit is reached. Malformed frames are skipped. Cancellation is
// a clean shutdown, not an error.
func (l *Listener) Run(ctx context.Context) error {
	failures := 0
	for {
		conn, _, err := websocket.Dial(ctx, l.url, nil)
		if err == nil {
			failures = 0
			l.read(ctx, conn)
			conn.Close(websocket.StatusNormalClosure, "")
		}
		if ctx.Err() != nil {
			return nil
		}

		failures++
		if failures > l.attempts {
			return fmt.Errorf("status feed unavailable after %d attempts", l.attempts)
		}
		if err := l.wait(ctx, l.delay(failures)); err != nil {
			return nil
		}
	}
}

// read pumps frames until the connection drops.
func (l *Listener) read(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var status ragchat.ServiceStatus
		if err := json.Unmarshal(data, &status); err != nil {
			continue
		}
		l.handler(status)
	}
}

// delay returns the backoff before the nth consecutive failure's retry.
func (l *Listener) delay(failures int) time.Duration {
	d := l.base
	for i := 1; i < failures; i++ {
		d *= 2
		if d >= l.max {
			return l.max
		}
	}
	if d > l.max {
		return l.max
	}
	return d
}

func (l *Listener) wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
