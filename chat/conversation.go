package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/ragchat"
)

// Messages are fetched first-page-only: the backend is paged but the
// client treats one large page as the complete set.
const (
	messagesPage = 0
	messagesSize = 100
)

// placeholderName labels a current-session stub whose real data has not
// been hydrated from the session list yet.
const placeholderName = "Loading..."

// Conversation owns the active session pointer, the message list for that
// session, and the send/retry/edit/delete workflow.
//
// Multi-step workflows pin the acting session reference before any awaited
// remote call: the user may switch sessions while the call is outstanding,
// and all post-call updates must target the pinned session, not whatever is
// current at resolution time.
type Conversation struct {
	api      ragchat.API
	sessions *SessionStore
	userID   string
	schedule Scheduler
	drafts   *ragchat.Drafts

	mu        sync.Mutex
	current   *ragchat.Session
	messages  []ragchat.Message
	loading   bool
	err       string
	editingID string

	// Single-flight fetch state: a new fetch cancels the previous one, and
	// a superseded fetch's result is discarded by generation check.
	fetchGen    uint64
	fetchCancel context.CancelFunc
}

// ConversationOption configures a [Conversation].
type ConversationOption func(*Conversation)

// WithScheduler sets the deferred-refresh scheduler. Tests use this to make
// background refreshes deterministic.
func WithScheduler(s Scheduler) ConversationOption {
	return func(c *Conversation) { c.schedule = s }
}

// NewConversation creates a Conversation for userID backed by api, sharing
// the given session store.
func NewConversation(api ragchat.API, sessions *SessionStore, userID string, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		api:      api,
		sessions: sessions,
		userID:   userID,
		schedule: defaultScheduler,
		drafts:   ragchat.NewDrafts(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Current returns a copy of the current session, or nil.
func (c *Conversation) Current() *ragchat.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	cp := *c.current
	return &cp
}

// SetCurrent replaces the current session pointer. Pass nil when the user
// starts composing outside any session.
func (c *Conversation) SetCurrent(sess *ragchat.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sess == nil {
		c.current = nil
		return
	}
	cp := *sess
	c.current = &cp
}

// Messages returns a copy of the current message list.
func (c *Conversation) Messages() []ragchat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ragchat.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Loading reports whether a remote operation is in flight.
func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last user-visible error, or "".
func (c *Conversation) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ClearErr resets the user-visible error.
func (c *Conversation) ClearErr() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = ""
}

// EditingID returns the ID of the message being edited, or "".
func (c *Conversation) EditingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID
}

// SetEditingID marks a message as being edited.
func (c *Conversation) SetEditingID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editingID = id
}

// Drafts returns the per-session draft buffer.
func (c *Conversation) Drafts() *ragchat.Drafts {
	return c.drafts
}

// FetchMessages loads the message list for sessionID, superseding any
// previous in-flight fetch: the old fetch is canceled and its result, even
// if it resolves later, is never applied.
//
// Unless preserveCurrent is true and a current session is already set, the
// current session is resolved by ID lookup in the session store; an unknown
// ID yields a minimal placeholder plus a deferred session-list refresh.
// Cancellation is not an error. Any other failure records the error and
// clears the message list.
func (c *Conversation) FetchMessages(ctx context.Context, sessionID string, preserveCurrent bool) error {
	c.mu.Lock()
	if c.fetchCancel != nil {
		c.fetchCancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	c.fetchCancel = cancel
	c.fetchGen++
	gen := c.fetchGen
	c.loading = true
	c.mu.Unlock()

	msgs, err := c.api.Messages(fctx, sessionID, c.userID, messagesPage, messagesSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.fetchGen {
		// Superseded by a newer fetch; discard this result entirely.
		return nil
	}
	c.loading = false
	c.fetchCancel = nil
	cancel()

	if err != nil {
		if ragchat.IsCanceled(err) {
			return nil
		}
		c.err = errMessage(err, "Failed to fetch messages")
		c.messages = nil
		return err
	}

	if msgs == nil {
		msgs = []ragchat.Message{}
	}
	c.messages = msgs

	if !preserveCurrent || c.current == nil {
		if sess, ok := c.sessions.ByID(sessionID); ok {
			c.current = &sess
		} else {
			c.current = &ragchat.Session{ID: sessionID, SessionName: placeholderName}
			c.scheduleListRefresh(refreshDelay)
		}
	}
	return nil
}

// StartNewChat creates a session from the first message and runs the first
// assistant turn. The title is derived from the message unless customTitle
// is given. The new session becomes current and is prepended to the local
// session list ahead of the deferred reconciling refresh.
func (c *Conversation) StartNewChat(ctx context.Context, message, customTitle string) (ragchat.Session, error) {
	title := customTitle
	if title == "" {
		title = ragchat.GenerateTitle(message)
	}

	c.setLoading(true)
	sess, err := c.api.NewChat(ctx, c.userID, message, title)
	if err != nil {
		c.mu.Lock()
		c.loading = false
		c.err = errMessage(err, "Failed to start new chat")
		c.mu.Unlock()
		return ragchat.Session{}, err
	}

	c.mu.Lock()
	cp := sess
	c.current = &cp
	c.mu.Unlock()
	c.sessions.Prepend(sess)

	_ = c.FetchMessages(ctx, sess.ID, true)
	c.scheduleListRefresh(newChatRefreshDelay)
	return sess, nil
}

// SendMessage sends content on the current session, or starts a new chat
// when there is none. The user message is echoed immediately as a temp
// entry; the authoritative USER+ASSISTANT pair arrives with the reload.
// On failure every temp message is stripped from local state.
func (c *Conversation) SendMessage(ctx context.Context, content string) error {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		_, err := c.StartNewChat(ctx, content, "")
		return err
	}
	pinned := *c.current

	temp := ragchat.Message{
		ID:         "temp-user-" + uuid.NewString(),
		Content:    content,
		SenderType: ragchat.SenderUser,
		CreatedAt:  time.Now(),
		SessionID:  pinned.ID,
		IsTemp:     true,
	}
	c.messages = append(c.messages, temp)
	c.loading = true
	c.mu.Unlock()

	if _, err := c.api.Chat(ctx, pinned.ID, c.userID, content); err != nil {
		c.mu.Lock()
		c.loading = false
		c.err = errMessage(err, "Failed to send message")
		c.messages = dropTemp(c.messages)
		c.mu.Unlock()
		return err
	}

	err := c.FetchMessages(ctx, pinned.ID, true)
	c.scheduleListRefresh(refreshDelay)
	return err
}

// RetryMessage re-runs the assistant turn that produced the given message.
// It is a no-op unless the target is an ASSISTANT message immediately
// preceded by a USER message. On failure the list is reloaded so the
// removed reply is restored rather than leaving a gap.
func (c *Conversation) RetryMessage(ctx context.Context, messageID string) error {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil
	}
	pinned := *c.current

	idx := indexOf(c.messages, messageID)
	if idx < 1 || c.messages[idx].SenderType != ragchat.SenderAssistant {
		c.mu.Unlock()
		return nil
	}
	prev := c.messages[idx-1]
	if prev.SenderType != ragchat.SenderUser || prev.IsTemp {
		c.mu.Unlock()
		return nil
	}

	c.messages = append(c.messages[:idx:idx], c.messages[idx+1:]...)
	c.loading = true
	c.mu.Unlock()

	if _, err := c.api.Chat(ctx, pinned.ID, c.userID, prev.Content); err != nil {
		c.mu.Lock()
		c.loading = false
		c.err = errMessage(err, "Failed to retry message")
		c.mu.Unlock()
		_ = c.FetchMessages(ctx, pinned.ID, true)
		return err
	}
	return c.FetchMessages(ctx, pinned.ID, true)
}

// EditMessage forks the conversation at a USER message: the target and
// everything after it are dropped locally, then the new content is sent as
// a fresh message. The original is never mutated in place. The editing
// marker is cleared regardless of outcome.
func (c *Conversation) EditMessage(ctx context.Context, messageID, newContent string) error {
	defer func() {
		c.mu.Lock()
		c.editingID = ""
		c.mu.Unlock()
	}()

	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil
	}
	pinned := *c.current

	idx := indexOf(c.messages, messageID)
	if idx < 0 || c.messages[idx].SenderType != ragchat.SenderUser || c.messages[idx].IsTemp {
		c.mu.Unlock()
		return nil
	}
	c.messages = c.messages[:idx:idx]
	c.mu.Unlock()

	if err := c.SendMessage(ctx, newContent); err != nil {
		_ = c.FetchMessages(ctx, pinned.ID, true)
		return err
	}
	return nil
}

// DeleteMessage removes a message, optimistically, then reloads to confirm.
func (c *Conversation) DeleteMessage(ctx context.Context, messageID string) error {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil
	}
	pinned := *c.current

	idx := indexOf(c.messages, messageID)
	if idx >= 0 {
		c.messages = append(c.messages[:idx:idx], c.messages[idx+1:]...)
	}
	c.loading = true
	c.mu.Unlock()

	if err := c.api.DeleteMessage(ctx, pinned.ID, messageID, c.userID); err != nil {
		c.mu.Lock()
		c.loading = false
		c.err = errMessage(err, "Failed to delete message")
		c.mu.Unlock()
		_ = c.FetchMessages(ctx, pinned.ID, true)
		return err
	}

	err := c.FetchMessages(ctx, pinned.ID, true)
	c.scheduleListRefresh(refreshDelay)
	return err
}

// DeleteSession deletes a session remotely and refreshes the session list.
// When the deleted session was current, the conversation is cleared and the
// session's draft is evicted.
func (c *Conversation) DeleteSession(ctx context.Context, sessionID string) error {
	if err := c.api.DeleteSession(ctx, sessionID, c.userID); err != nil {
		c.mu.Lock()
		c.err = errMessage(err, "Failed to delete session")
		c.mu.Unlock()
		return err
	}
	_ = c.sessions.List(ctx)
	c.drafts.Evict(sessionID)

	c.mu.Lock()
	if c.current != nil && c.current.ID == sessionID {
		c.current = nil
		c.messages = nil
	}
	c.mu.Unlock()
	return nil
}

// ClearMessages resets the message list and editing marker and cancels any
// in-flight fetch. Used when the user starts a new, empty conversation
// before any backend session exists.
func (c *Conversation) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.editingID = ""
	if c.fetchCancel != nil {
		c.fetchCancel()
		c.fetchCancel = nil
	}
	// The bumped generation makes the canceled fetch discard its result
	// without touching the loading flag, so it is reset here.
	c.fetchGen++
	c.loading = false
}

func (c *Conversation) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Conversation) scheduleListRefresh(d time.Duration) {
	c.schedule(d, func() { _ = c.sessions.List(context.Background()) })
}

func indexOf(msgs []ragchat.Message, id string) int {
	for i, m := range msgs {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func dropTemp(msgs []ragchat.Message) []ragchat.Message {
	kept := msgs[:0]
	for _, m := range msgs {
		if !m.IsTemp {
			kept = append(kept, m)
		}
	}
	return kept
}
